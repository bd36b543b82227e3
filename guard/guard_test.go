package guard

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/milk9111/stealth/common"
	"github.com/milk9111/stealth/detect"
	"github.com/milk9111/stealth/nav"
	"github.com/milk9111/stealth/waypoint"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// instantAgent arrives the moment a destination is set.
type instantAgent struct {
	pos    common.Vec3
	speed  float64
	dests  []common.Vec3
	reject map[common.Vec3]bool
}

func (a *instantAgent) SetDestination(p common.Vec3) bool {
	if a.reject[p] {
		return false
	}
	a.dests = append(a.dests, p)
	a.pos = p
	return true
}

func (a *instantAgent) CalculatePath(p common.Vec3) ([]common.Vec3, bool) {
	if a.reject[p] {
		return nil, false
	}
	return []common.Vec3{a.pos, p}, true
}

func (a *instantAgent) RemainingDistance() float64  { return 0 }
func (a *instantAgent) StoppingDistance() float64   { return 0.1 }
func (a *instantAgent) HasPath() bool               { return false }
func (a *instantAgent) Velocity() common.Vec3       { return common.Vec3{} }
func (a *instantAgent) Speed() float64              { return a.speed }
func (a *instantAgent) SetSpeed(s float64)          { a.speed = s }
func (a *instantAgent) Transform() common.Transform { return common.Transform{Position: a.pos} }

type stubTarget struct{ pos common.Vec3 }

func (s stubTarget) ID() string            { return "player" }
func (s stubTarget) Position() common.Vec3 { return s.pos }

type stubDetector struct {
	after  int
	calls  int
	target detect.Target
}

func (d *stubDetector) DetectPlayer(common.Transform, common.Vec3, float64, float64, string) (detect.Target, bool) {
	d.calls++
	if d.after > 0 && d.calls >= d.after {
		return d.target, true
	}
	return nil, false
}

func route(n int) *waypoint.Manager {
	m := waypoint.NewManager("route", common.Vec3{0, 0, 100})
	for i := 0; i < n; i++ {
		m.Add(waypoint.New(common.Vec3{float64(i + 1), 0, 0}), -1)
	}
	return m
}

func noWait(state State) Config {
	cfg := DefaultConfig()
	cfg.Name = "g1"
	cfg.State = state
	cfg.MinWait = 0
	cfg.MaxWait = 0
	return cfg
}

func newTestGuard(cfg Config, r *waypoint.Manager, agent *instantAgent) *Guard {
	return New(cfg, Deps{
		Agent: agent,
		Route: r,
		Rand:  rand.New(rand.NewPCG(7, 11)),
		Log:   zerolog.Nop(),
	})
}

// visited maps destinations back to route indices.
func visited(t *testing.T, r *waypoint.Manager, dests []common.Vec3) []int {
	t.Helper()
	positions := r.Positions()
	out := make([]int, 0, len(dests))
	for _, d := range dests {
		idx := -1
		for i, p := range positions {
			if p == d {
				idx = i
			}
		}
		require.NotEqual(t, -1, idx, "destination %v is not on the route", d)
		out = append(out, idx)
	}
	return out
}

func TestPatrolOrder(t *testing.T) {
	cases := []struct {
		name  string
		state State
		n     int
		want  []int
	}{
		{"looping_three", StateLoopingPatrol, 3, []int{0, 1, 2, 0, 1, 2, 0}},
		{"looping_one", StateLoopingPatrol, 1, []int{0, 0, 0, 0}},
		{"mirrored_three", StateMirroredPatrol, 3, []int{0, 1, 2, 1, 0, 1, 2}},
		{"mirrored_two", StateMirroredPatrol, 2, []int{0, 1, 0, 1, 0}},
		{"mirrored_one", StateMirroredPatrol, 1, []int{0, 0, 0}},
		{"mirrored_four", StateMirroredPatrol, 4, []int{0, 1, 2, 3, 2, 1, 0, 1, 2, 3, 2, 1, 0}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := route(c.n)
			agent := &instantAgent{speed: 3}
			g := newTestGuard(noWait(c.state), r, agent)

			// each leg takes three ticks: arrive, finish waiting, resume
			for len(agent.dests) < len(c.want) {
				g.Tick(0.1)
			}
			assert.Equal(t, c.want, visited(t, r, agent.dests))
		})
	}
}

func TestMirroredIsPeriodic(t *testing.T) {
	for n := 2; n <= 6; n++ {
		r := route(n)
		agent := &instantAgent{speed: 3}
		g := newTestGuard(noWait(StateMirroredPatrol), r, agent)

		period := 2 * (n - 1)
		for len(agent.dests) < 2*period+1 {
			g.Tick(0.1)
		}
		seq := visited(t, r, agent.dests)
		for i := 0; i+period < len(seq); i++ {
			assert.Equal(t, seq[i], seq[i+period], "n=%d step %d", n, i)
		}
		for i := 1; i < len(seq); i++ {
			assert.Equal(t, 1, absInt(seq[i]-seq[i-1]), "n=%d jump at %d", n, i)
		}
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestRandomPatrolCoversRoute(t *testing.T) {
	r := route(4)
	agent := &instantAgent{speed: 3}
	g := newTestGuard(noWait(StateRandomPatrol), r, agent)

	for len(agent.dests) < 200 {
		g.Tick(0.1)
	}
	seen := map[int]int{}
	for _, idx := range visited(t, r, agent.dests) {
		require.GreaterOrEqual(t, idx, 0)
		require.Less(t, idx, 4)
		seen[idx]++
	}
	assert.Len(t, seen, 4)
}

func TestWaitDurationWithinBounds(t *testing.T) {
	curves := []struct {
		name  string
		curve Curve
	}{
		{"identity", LinearCurve()},
		{"empty", Curve{}},
		{"overshoot", Curve{Keys: []Key{{0, -1}, {1, 2}}}},
		{"constant_high", Curve{Keys: []Key{{0, 5}}}},
		{"constant_low", Curve{Keys: []Key{{0, -5}}}},
	}

	for _, c := range curves {
		t.Run(c.name, func(t *testing.T) {
			for seed := uint64(0); seed < 20; seed++ {
				cfg := noWait(StateLoopingPatrol)
				cfg.MinWait = 2
				cfg.MaxWait = 5
				cfg.WaitCurve = c.curve
				g := New(cfg, Deps{
					Agent: &instantAgent{speed: 3},
					Route: route(2),
					Rand:  rand.New(rand.NewPCG(seed, 3)),
					Log:   zerolog.Nop(),
				})

				g.Tick(0.1)
				require.Equal(t, StateIdle, g.State())
				assert.GreaterOrEqual(t, g.TimeToWait(), 2.0)
				assert.LessOrEqual(t, g.TimeToWait(), 5.0)
			}
		})
	}
}

func TestReversedWaitBoundsAreSwapped(t *testing.T) {
	for seed := uint64(0); seed < 20; seed++ {
		cfg := noWait(StateLoopingPatrol)
		cfg.MinWait = 1
		cfg.MaxWait = 0.5
		g := New(cfg, Deps{
			Agent: &instantAgent{speed: 3},
			Route: route(2),
			Rand:  rand.New(rand.NewPCG(seed, 5)),
			Log:   zerolog.Nop(),
		})
		assert.Equal(t, 0.5, g.Config().MinWait)
		assert.Equal(t, 1.0, g.Config().MaxWait)

		g.Tick(0.1)
		require.Equal(t, StateIdle, g.State())
		assert.GreaterOrEqual(t, g.TimeToWait(), 0.5)
		assert.LessOrEqual(t, g.TimeToWait(), 1.0)
	}
}

func TestCurveEndpoints(t *testing.T) {
	c := LinearCurve()
	assert.Equal(t, 0.0, c.Evaluate(0))
	assert.Equal(t, 1.0, c.Evaluate(1))
	assert.InDelta(t, 0.25, c.Evaluate(0.25), 1e-12)

	unsorted := Curve{Keys: []Key{{1, 0}, {0, 1}}}
	assert.InDelta(t, 0.75, unsorted.Evaluate(0.25), 1e-12)
	assert.Equal(t, 1.0, unsorted.Evaluate(-3))
}

func TestIdleResumesPreviousState(t *testing.T) {
	cfg := noWait(StateLoopingPatrol)
	cfg.MinWait = 1
	cfg.MaxWait = 1
	agent := &instantAgent{speed: 3}
	g := newTestGuard(cfg, route(3), agent)

	g.Tick(0.25)
	require.Equal(t, StateIdle, g.State())
	assert.Equal(t, StateLoopingPatrol, g.PreviousState())

	for i := 0; i < 3; i++ {
		g.Tick(0.25)
		assert.Equal(t, StateIdle, g.State(), "tick %d", i)
	}
	g.Tick(0.25)
	assert.Equal(t, StateLoopingPatrol, g.State())
	assert.Equal(t, StateIdle, g.PreviousState())
	assert.Len(t, agent.dests, 1)

	g.Tick(0.25)
	assert.Len(t, agent.dests, 2)
	assert.Equal(t, 1, g.WaypointIndex())
}

func TestDetectionLatch(t *testing.T) {
	agent := &instantAgent{speed: 3}
	det := &stubDetector{after: 4, target: stubTarget{pos: common.Vec3{9, 0, 9}}}
	var events []Event
	g := New(noWait(StateLoopingPatrol), Deps{
		Agent:    agent,
		Route:    route(3),
		Detector: det,
		Rand:     rand.New(rand.NewPCG(1, 1)),
		Log:      zerolog.Nop(),
		OnEvent:  func(e Event) { events = append(events, e) },
	})

	for i := 0; i < 3; i++ {
		g.Tick(0.1)
		require.False(t, g.FoundPlayer())
	}
	g.Tick(0.1)
	require.True(t, g.FoundPlayer())
	assert.Equal(t, StatePursuit, g.State())
	assert.Equal(t, 6.0, agent.speed)
	assert.Equal(t, common.Vec3{9, 0, 9}, agent.dests[len(agent.dests)-1])

	dests := len(agent.dests)
	for i := 0; i < 100; i++ {
		g.Tick(0.1)
		require.Equal(t, StatePursuit, g.State())
		require.True(t, g.FoundPlayer())
	}
	assert.Equal(t, 4, det.calls, "detection is not re-run once latched")
	assert.Len(t, agent.dests, dests, "no waypoint logic after the latch")
	assert.False(t, g.Investigate(common.Vec3{1, 0, 1}))

	require.NotEmpty(t, events)
	assert.Equal(t, EventSpotted, events[len(events)-1].Kind)
	assert.Equal(t, "g1", events[len(events)-1].Guard)
}

func TestInvestigate(t *testing.T) {
	agent := &instantAgent{speed: 2}
	g := newTestGuard(noWait(StateLoopingPatrol), route(3), agent)
	state := g.State()

	require.True(t, g.Investigate(common.Vec3{5, 0, 5}))
	assert.Equal(t, common.Vec3{5, 0, 5}, agent.dests[len(agent.dests)-1])
	assert.Equal(t, 4.0, agent.speed)
	assert.Equal(t, state, g.State())

	agent.reject = map[common.Vec3]bool{{7, 0, 7}: true}
	assert.False(t, g.Investigate(common.Vec3{7, 0, 7}))
	assert.Equal(t, common.Vec3{5, 0, 5}, agent.pos)
}

func TestGuardStanceReturnsToAnchor(t *testing.T) {
	agent := &instantAgent{pos: common.Vec3{4, 0, 4}, speed: 2}
	g := newTestGuard(noWait(StateGuard), nil, agent)
	assert.Equal(t, common.Vec3{4, 0, 4}, g.Anchor())

	require.True(t, g.Investigate(common.Vec3{8, 0, 8}))
	for i := 0; i < 3; i++ {
		g.Tick(0.1)
	}
	assert.Equal(t, common.Vec3{4, 0, 4}, agent.pos)
	assert.Equal(t, 2.0, agent.speed)
}

func TestPatrolWithoutWaypoints(t *testing.T) {
	for _, r := range []*waypoint.Manager{nil, route(0)} {
		agent := &instantAgent{speed: 2}
		g := newTestGuard(noWait(StateMirroredPatrol), r, agent)
		for i := 0; i < 10; i++ {
			g.Tick(0.1)
		}
		assert.Empty(t, agent.dests)
		assert.Equal(t, StateMirroredPatrol, g.State())
	}
}

func TestNilAgent(t *testing.T) {
	g := New(noWait(StateLoopingPatrol), Deps{Route: route(2), Log: zerolog.Nop()})
	assert.NotPanics(t, func() { g.Tick(0.1) })
	assert.False(t, g.Investigate(common.Vec3{1, 0, 1}))
	assert.True(t, math.IsInf(g.TravelDistanceToPoint(common.Vec3{1, 0, 1}), 1))
}

func TestTravelDistanceToPoint(t *testing.T) {
	grid := nav.NewGrid(0, 0, 30, 30, 0.5)
	agent := nav.NewGridAgent(grid, common.Vec3{5.25, 0, 5.25}, 0, 3, 0.1)
	g := New(noWait(StateGuard), Deps{Agent: agent, Log: zerolog.Nop()})

	assert.InDelta(t, 10, g.TravelDistanceToPoint(common.Vec3{5.25, 0, 15.25}), 1e-9)

	grid.Block(0, 20, 30, 21)
	assert.True(t, math.IsInf(g.TravelDistanceToPoint(common.Vec3{5, 0, 25}), 1))
}

func TestHeadSweepCompletesOneCycle(t *testing.T) {
	cfg := noWait(StateGuard)
	cfg.MinWait = 100
	cfg.MaxWait = 100
	cfg.MinLookSpeed = math.Pi
	cfg.MaxLookSpeed = math.Pi
	g := newTestGuard(cfg, nil, &instantAgent{speed: 1})

	g.Tick(0.5)
	require.Equal(t, StateIdle, g.State())
	assert.InDelta(t, 65, g.HeadYaw(), 1e-9)

	g.Tick(1.0)
	assert.InDelta(t, -65, g.HeadYaw(), 1e-9)

	g.Tick(0.5)
	assert.Equal(t, 0.0, g.HeadYaw())
}

func TestParseState(t *testing.T) {
	for s, name := range stateNames {
		got, err := ParseState(name)
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	got, err := ParseState("Mirrored Patrol")
	require.NoError(t, err)
	assert.Equal(t, StateMirroredPatrol, got)

	_, err = ParseState("dancing")
	assert.Error(t, err)
}
