package waypoint

import (
	"testing"

	"github.com/milk9111/stealth/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaypointPosition(t *testing.T) {
	wp := New(common.Vec3{1, 0, 2})
	assert.Equal(t, common.Vec3{1, 0, 2}, wp.Position())

	wp.UpdatePosition(common.Vec3{1, 0, 0})
	wp.UpdatePosition(common.Vec3{1, 0, 0})
	assert.Equal(t, common.Vec3{3, 0, 2}, wp.Position())

	var other Waypoint
	other.Copy(&wp)
	assert.Equal(t, wp.Offset, other.Offset)

	other.Copy(nil)
	assert.Equal(t, wp.Offset, other.Offset)
}

func TestManagerAdd(t *testing.T) {
	cases := []struct {
		name  string
		index int
		want  []float64
	}{
		{"append", -1, []float64{0, 1, 2, 9}},
		{"front", 0, []float64{9, 0, 1, 2}},
		{"middle", 2, []float64{0, 1, 9, 2}},
		{"past_end", 10, []float64{0, 1, 2, 9}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m := NewManager("route", common.Vec3{})
			for i := 0; i < 3; i++ {
				m.Add(New(common.Vec3{float64(i), 0, 0}), -1)
			}
			m.Add(New(common.Vec3{9, 0, 0}), c.index)

			require.Equal(t, len(c.want), m.Len())
			for i, x := range c.want {
				p, ok := m.Position(i)
				require.True(t, ok)
				assert.Equal(t, x, p[0], "index %d", i)
			}
		})
	}
}

func TestManagerResolvesThroughOrigin(t *testing.T) {
	m := NewManager("route", common.Vec3{10, 0, 10})
	m.Add(New(common.Vec3{1, 0, 0}), -1)
	m.Add(New(common.Vec3{0, 0, 1}), -1)

	refs := m.All()
	require.Len(t, refs, 2)
	assert.Equal(t, common.Vec3{11, 0, 10}, refs[0].Position())

	m.SetOrigin(common.Vec3{0, 0, 0})
	assert.Equal(t, common.Vec3{1, 0, 0}, refs[0].Position())
	assert.Equal(t, common.Vec3{0, 0, 1}, refs[1].Position())
	assert.Same(t, m, refs[1].Manager())
}

func TestManagerInsertAfterAndRemove(t *testing.T) {
	m := NewManager("route", common.Vec3{})
	m.Add(New(common.Vec3{1, 0, 0}), -1)
	m.Add(New(common.Vec3{5, 0, 0}), -1)

	idx, ok := m.InsertAfter(0)
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, []common.Vec3{{1, 0, 0}, {1, 0, 0}, {5, 0, 0}}, m.Positions())

	require.True(t, m.Move(1, common.Vec3{1, 0, 0}))
	assert.Equal(t, []common.Vec3{{1, 0, 0}, {2, 0, 0}, {5, 0, 0}}, m.Positions())

	require.True(t, m.Remove(0))
	assert.False(t, m.Remove(7))
	assert.Equal(t, 2, m.Len())

	_, ok = m.InsertAfter(5)
	assert.False(t, ok)
}

func TestNilManager(t *testing.T) {
	var m *Manager
	assert.Equal(t, 0, m.Len())
	assert.Empty(t, m.All())
	_, ok := m.Position(0)
	assert.False(t, ok)
	assert.False(t, Ref{}.Valid())
}
