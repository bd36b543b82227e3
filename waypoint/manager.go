package waypoint

import "github.com/milk9111/stealth/common"

// Manager owns an ordered patrol route. Order is traversal order.
type Manager struct {
	Name   string
	origin common.Vec3
	points []Waypoint
}

func NewManager(name string, origin common.Vec3) *Manager {
	return &Manager{Name: name, origin: origin}
}

func (m *Manager) Origin() common.Vec3 {
	if m == nil {
		return common.Vec3{}
	}
	return m.origin
}

// SetOrigin moves the whole route; offsets are untouched.
func (m *Manager) SetOrigin(origin common.Vec3) {
	if m == nil {
		return
	}
	m.origin = origin
}

func (m *Manager) Len() int {
	if m == nil {
		return 0
	}
	return len(m.points)
}

// Add inserts wp at index, or appends when index is negative or past the
// end. It returns the index the waypoint landed at.
func (m *Manager) Add(wp Waypoint, index int) int {
	if m == nil {
		return -1
	}
	if index < 0 || index >= len(m.points) {
		m.points = append(m.points, wp)
		return len(m.points) - 1
	}
	m.points = append(m.points, Waypoint{})
	copy(m.points[index+1:], m.points[index:])
	m.points[index] = wp
	return index
}

// InsertAfter places a copy of waypoint i directly after it.
func (m *Manager) InsertAfter(i int) (int, bool) {
	src, ok := m.At(i)
	if !ok {
		return -1, false
	}
	wp := New(common.Vec3{})
	wp.Copy(&src)
	return m.Add(wp, i+1), true
}

func (m *Manager) Remove(i int) bool {
	if !m.valid(i) {
		return false
	}
	m.points = append(m.points[:i], m.points[i+1:]...)
	return true
}

// At returns a copy of waypoint i.
func (m *Manager) At(i int) (Waypoint, bool) {
	if !m.valid(i) {
		return Waypoint{}, false
	}
	return m.points[i], true
}

// Move applies UpdatePosition to waypoint i.
func (m *Manager) Move(i int, delta common.Vec3) bool {
	if !m.valid(i) {
		return false
	}
	m.points[i].UpdatePosition(delta)
	return true
}

// Position resolves waypoint i to world space.
func (m *Manager) Position(i int) (common.Vec3, bool) {
	if !m.valid(i) {
		return common.Vec3{}, false
	}
	return m.origin.Add(m.points[i].Offset), true
}

func (m *Manager) Positions() []common.Vec3 {
	out := make([]common.Vec3, 0, m.Len())
	for i := 0; i < m.Len(); i++ {
		p, _ := m.Position(i)
		out = append(out, p)
	}
	return out
}

// All returns a handle per waypoint in traversal order.
func (m *Manager) All() []Ref {
	out := make([]Ref, 0, m.Len())
	for i := 0; i < m.Len(); i++ {
		out = append(out, Ref{manager: m, index: i})
	}
	return out
}

func (m *Manager) valid(i int) bool {
	return m != nil && i >= 0 && i < len(m.points)
}

// Ref addresses a waypoint by owner and index. Its position is resolved
// through the owner on every call.
type Ref struct {
	manager *Manager
	index   int
}

func (r Ref) Index() int {
	return r.index
}

func (r Ref) Manager() *Manager {
	return r.manager
}

func (r Ref) Valid() bool {
	return r.manager.valid(r.index)
}

func (r Ref) Position() common.Vec3 {
	p, _ := r.manager.Position(r.index)
	return p
}
