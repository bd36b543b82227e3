package nav

import (
	"container/heap"
	"math"

	"github.com/milk9111/stealth/common"
)

const DefaultCellSize = 0.5

type gridPos struct {
	x int
	y int
}

// Grid is a walkability map over the ground plane. Grid x follows world X,
// grid y follows world Z.
type Grid struct {
	minX, minZ float64
	cellSize   float64
	width      int
	height     int
	blocked    []bool
}

func NewGrid(minX, minZ, maxX, maxZ, cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	w := int(math.Ceil((maxX - minX) / cellSize))
	h := int(math.Ceil((maxZ - minZ) / cellSize))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return &Grid{
		minX:     minX,
		minZ:     minZ,
		cellSize: cellSize,
		width:    w,
		height:   h,
		blocked:  make([]bool, w*h),
	}
}

func (g *Grid) CellSize() float64 { return g.cellSize }
func (g *Grid) Size() (int, int)  { return g.width, g.height }

// Bounds returns the covered ground rectangle.
func (g *Grid) Bounds() (minX, minZ, maxX, maxZ float64) {
	return g.minX, g.minZ, g.minX + float64(g.width)*g.cellSize, g.minZ + float64(g.height)*g.cellSize
}

// Block marks every cell overlapping the rectangle as unwalkable.
func (g *Grid) Block(minX, minZ, maxX, maxZ float64) {
	startX := int(math.Floor((minX - g.minX) / g.cellSize))
	startY := int(math.Floor((minZ - g.minZ) / g.cellSize))
	endX := int(math.Floor((maxX - g.minX - 0.001) / g.cellSize))
	endY := int(math.Floor((maxZ - g.minZ - 0.001) / g.cellSize))

	if startX < 0 {
		startX = 0
	}
	if startY < 0 {
		startY = 0
	}
	if endX >= g.width {
		endX = g.width - 1
	}
	if endY >= g.height {
		endY = g.height - 1
	}

	for y := startY; y <= endY; y++ {
		for x := startX; x <= endX; x++ {
			g.blocked[y*g.width+x] = true
		}
	}
}

// Blocked reports whether cell (x, y) is unwalkable. Cells off the grid are.
func (g *Grid) Blocked(x, y int) bool {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return true
	}
	return g.blocked[y*g.width+x]
}

// Walkable reports whether a world point lies on a free cell.
func (g *Grid) Walkable(p common.Vec3) bool {
	c, ok := g.cellOf(p)
	return ok && !g.Blocked(c.x, c.y)
}

// FindPath returns path corners from start to goal, both included, or false
// when goal cannot be reached.
func (g *Grid) FindPath(start, goal common.Vec3) ([]common.Vec3, bool) {
	from, ok := g.cellOf(start)
	if !ok {
		return nil, false
	}
	to, ok := g.cellOf(goal)
	if !ok {
		return nil, false
	}

	cells := astarPath(from, to, g.blocked, g.width, g.height)
	if len(cells) == 0 {
		return nil, false
	}
	if len(cells) == 1 {
		return []common.Vec3{start, goal}, true
	}

	points := make([]common.Vec3, 0, len(cells)+2)
	points = append(points, start)
	for _, c := range cells[1 : len(cells)-1] {
		points = append(points, g.cellCentre(c, start[1]))
	}
	points = append(points, goal)
	return g.stringPull(points), true
}

// stringPull drops corners that have line of sight past them.
func (g *Grid) stringPull(points []common.Vec3) []common.Vec3 {
	if len(points) <= 2 {
		return points
	}
	out := []common.Vec3{points[0]}
	anchor := 0
	for i := 2; i < len(points); i++ {
		if !g.clear(points[anchor], points[i]) {
			anchor = i - 1
			out = append(out, points[anchor])
		}
	}
	return append(out, points[len(points)-1])
}

// clear samples the segment at quarter-cell steps.
func (g *Grid) clear(a, b common.Vec3) bool {
	d := common.Flat(b.Sub(a))
	length := d.Len()
	steps := int(math.Ceil(length/(g.cellSize*0.25))) + 1
	for s := 0; s <= steps; s++ {
		t := float64(s) / float64(steps)
		p := a.Add(d.Mul(t))
		c, ok := g.cellOf(p)
		if !ok || g.Blocked(c.x, c.y) {
			return false
		}
	}
	return true
}

func (g *Grid) cellOf(p common.Vec3) (gridPos, bool) {
	gx := int(math.Floor((p[0] - g.minX) / g.cellSize))
	gy := int(math.Floor((p[2] - g.minZ) / g.cellSize))
	if gx < 0 || gy < 0 || gx >= g.width || gy >= g.height {
		return gridPos{}, false
	}
	return gridPos{x: gx, y: gy}, true
}

func (g *Grid) cellCentre(c gridPos, y float64) common.Vec3 {
	half := g.cellSize * 0.5
	return common.Vec3{
		g.minX + float64(c.x)*g.cellSize + half,
		y,
		g.minZ + float64(c.y)*g.cellSize + half,
	}
}

func astarPath(start, goal gridPos, blocked []bool, gridW, gridH int) []gridPos {
	if blocked[start.y*gridW+start.x] || blocked[goal.y*gridW+goal.x] {
		return nil
	}

	open := &openSet{}
	heap.Init(open)

	cameFrom := make([]int, gridW*gridH)
	for i := range cameFrom {
		cameFrom[i] = -1
	}
	gScore := make([]float64, gridW*gridH)
	for i := range gScore {
		gScore[i] = math.Inf(1)
	}
	startIdx := start.y*gridW + start.x
	goalIdx := goal.y*gridW + goal.x
	gScore[startIdx] = 0
	heap.Push(open, &openItem{pos: start, f: heuristic(start, goal), g: 0})

	for open.Len() > 0 {
		current := heap.Pop(open).(*openItem)
		cur := current.pos
		curIdx := cur.y*gridW + cur.x

		if curIdx == goalIdx {
			return reconstructPath(cameFrom, gridW, startIdx, goalIdx)
		}
		if current.g > gScore[curIdx] {
			continue
		}

		for _, n := range neighbors(cur, gridW, gridH) {
			idx := n.y*gridW + n.x
			if blocked[idx] {
				continue
			}
			tentativeG := gScore[curIdx] + 1
			if tentativeG < gScore[idx] {
				cameFrom[idx] = curIdx
				gScore[idx] = tentativeG
				heap.Push(open, &openItem{pos: n, f: tentativeG + heuristic(n, goal), g: tentativeG})
			}
		}
	}

	return nil
}

func reconstructPath(cameFrom []int, gridW int, startIdx, goalIdx int) []gridPos {
	if startIdx == goalIdx {
		return []gridPos{{x: startIdx % gridW, y: startIdx / gridW}}
	}
	if cameFrom[goalIdx] == -1 {
		return nil
	}

	path := make([]gridPos, 0, 32)
	for cur := goalIdx; cur != -1; cur = cameFrom[cur] {
		path = append(path, gridPos{x: cur % gridW, y: cur / gridW})
		if cur == startIdx {
			break
		}
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func neighbors(p gridPos, gridW, gridH int) []gridPos {
	out := make([]gridPos, 0, 4)
	if p.x > 0 {
		out = append(out, gridPos{x: p.x - 1, y: p.y})
	}
	if p.x < gridW-1 {
		out = append(out, gridPos{x: p.x + 1, y: p.y})
	}
	if p.y > 0 {
		out = append(out, gridPos{x: p.x, y: p.y - 1})
	}
	if p.y < gridH-1 {
		out = append(out, gridPos{x: p.x, y: p.y + 1})
	}
	return out
}

func heuristic(a, b gridPos) float64 {
	return math.Abs(float64(a.x-b.x)) + math.Abs(float64(a.y-b.y))
}

type openItem struct {
	pos   gridPos
	f     float64
	g     float64
	index int
}

type openSet []*openItem

func (o openSet) Len() int           { return len(o) }
func (o openSet) Less(i, j int) bool { return o[i].f < o[j].f }
func (o openSet) Swap(i, j int) {
	o[i], o[j] = o[j], o[i]
	o[i].index = i
	o[j].index = j
}
func (o *openSet) Push(x any) {
	item := x.(*openItem)
	item.index = len(*o)
	*o = append(*o, item)
}
func (o *openSet) Pop() any {
	old := *o
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*o = old[:n-1]
	return item
}
