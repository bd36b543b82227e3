package ecs

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/stealth/common"
	"github.com/milk9111/stealth/detect"
)

const (
	collisionTypeWall cp.CollisionType = iota + 1
	collisionTypeActor
)

// WallRootPrefix marks the root name of static wall shapes.
const WallRootPrefix = "wall:"

// Wall is an axis-aligned block on the ground plane.
type Wall struct {
	Name                   string
	MinX, MinZ, MaxX, MaxZ float64
}

// PhysicsWorld owns the Chipmunk space that sight rays are cast against.
// The level is mapped top down: world X is space X and world Z is space Y.
// Walls and actors are treated as infinitely tall.
type PhysicsWorld struct {
	space  *cp.Space
	walls  []Wall
	bodies map[string]*cp.Shape
}

func NewPhysicsWorld() *PhysicsWorld {
	space := cp.NewSpace()
	space.Iterations = 10
	return &PhysicsWorld{
		space:  space,
		bodies: make(map[string]*cp.Shape),
	}
}

func (pw *PhysicsWorld) Space() *cp.Space {
	if pw == nil {
		return nil
	}
	return pw.space
}

func (pw *PhysicsWorld) Walls() []Wall {
	if pw == nil {
		return nil
	}
	return pw.walls
}

// AddWall adds a static box that blocks sight.
func (pw *PhysicsWorld) AddWall(w Wall) {
	if pw == nil {
		return
	}
	bb := cp.BB{
		L: math.Min(w.MinX, w.MaxX),
		B: math.Min(w.MinZ, w.MaxZ),
		R: math.Max(w.MinX, w.MaxX),
		T: math.Max(w.MinZ, w.MaxZ),
	}
	shape := cp.NewBox2(pw.space.StaticBody, bb, 0)
	shape.SetCollisionType(collisionTypeWall)
	shape.UserData = WallRootPrefix + w.Name
	pw.space.AddShape(shape)
	pw.walls = append(pw.walls, w)
}

// AddBody adds a round kinematic body whose shape reports root when hit.
// Adding the same root twice moves the existing body.
func (pw *PhysicsWorld) AddBody(root string, pos common.Vec3, radius float64) {
	if pw == nil {
		return
	}
	if _, ok := pw.bodies[root]; ok {
		pw.MoveBody(root, pos)
		return
	}
	body := cp.NewKinematicBody()
	body.SetPosition(toSpace(pos))
	pw.space.AddBody(body)

	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetCollisionType(collisionTypeActor)
	shape.UserData = root
	pw.space.AddShape(shape)
	pw.bodies[root] = shape
}

// MoveBody teleports a body and refreshes its place in the spatial index.
func (pw *PhysicsWorld) MoveBody(root string, pos common.Vec3) bool {
	if pw == nil {
		return false
	}
	shape, ok := pw.bodies[root]
	if !ok {
		return false
	}
	// cp only reindexes in Step, so re-add the shape to refresh its bounds.
	shape.Body().SetPosition(toSpace(pos))
	pw.space.RemoveShape(shape)
	pw.space.AddShape(shape)
	return true
}

// BodyPosition returns a body's ground-plane position.
func (pw *PhysicsWorld) BodyPosition(root string) (common.Vec3, bool) {
	if pw == nil {
		return common.Vec3{}, false
	}
	shape, ok := pw.bodies[root]
	if !ok {
		return common.Vec3{}, false
	}
	p := shape.Body().Position()
	return common.Vec3{p.X, 0, p.Y}, true
}

// Raycast implements detect.Raycaster. Height is ignored when testing for
// hits; the reported point and distance are along the 3D ray.
func (pw *PhysicsWorld) Raycast(origin, direction common.Vec3, maxDistance float64) (detect.Hit, bool) {
	if pw == nil || maxDistance <= 0 {
		return detect.Hit{}, false
	}
	dir := common.SafeNormalize(direction)
	if dir.Len() == 0 {
		return detect.Hit{}, false
	}
	end := origin.Add(dir.Mul(maxDistance))

	info := pw.space.SegmentQueryFirst(toSpace(origin), toSpace(end), 0, cp.SHAPE_FILTER_ALL)
	if info.Shape == nil {
		return detect.Hit{}, false
	}
	root, _ := info.Shape.UserData.(string)
	dist := info.Alpha * maxDistance
	return detect.Hit{
		Point:    origin.Add(dir.Mul(dist)),
		Distance: dist,
		Root:     root,
	}, true
}

func toSpace(p common.Vec3) cp.Vector {
	return cp.Vector{X: p[0], Y: p[2]}
}
