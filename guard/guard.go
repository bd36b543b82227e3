package guard

import (
	"math"
	"math/rand/v2"

	"github.com/milk9111/stealth/common"
	"github.com/milk9111/stealth/detect"
	"github.com/milk9111/stealth/nav"
	"github.com/milk9111/stealth/waypoint"
	"github.com/rs/zerolog"
)

// Detector is the sight test a guard runs every tick.
type Detector interface {
	DetectPlayer(detector common.Transform, offset common.Vec3, viewRange, angle float64, name string) (detect.Target, bool)
}

type EventKind string

const (
	EventSpotted     EventKind = "spotted"
	EventInvestigate EventKind = "investigate"
	EventWaiting     EventKind = "waiting"
)

type Event struct {
	Kind     EventKind
	Guard    string
	Position common.Vec3
}

func (e Event) Source() string { return e.Guard }

type Deps struct {
	Agent    nav.Agent
	Route    *waypoint.Manager
	Detector Detector
	Rand     *rand.Rand
	Log      zerolog.Logger
	OnEvent  func(Event)
}

// Guard patrols a route and latches into pursuit the first time it sees the
// player.
type Guard struct {
	Name string

	cfg      Config
	agent    nav.Agent
	route    *waypoint.Manager
	detector Detector
	rng      *rand.Rand
	log      zerolog.Logger
	onEvent  func(Event)

	current     State
	previous    State
	index       int
	waited      bool
	idleTime    float64
	timeToWait  float64
	patrolSpeed float64
	alertSpeed  float64
	anchor      common.Vec3
	foundPlayer bool
	target      detect.Target
	head        headSweep
}

func New(cfg Config, deps Deps) *Guard {
	cfg = cfg.normalized()
	g := &Guard{
		Name:     cfg.Name,
		cfg:      cfg,
		agent:    deps.Agent,
		route:    deps.Route,
		detector: deps.Detector,
		rng:      deps.Rand,
		log:      deps.Log.With().Str("guard", cfg.Name).Logger(),
		onEvent:  deps.OnEvent,
		current:  cfg.State,
		previous: StateIdle,
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewPCG(1, 2))
	}
	g.head = newHeadSweep(cfg, g.rng)

	if g.agent == nil {
		g.log.Error().Msg("no navigation agent")
		return g
	}

	g.patrolSpeed = g.agent.Speed()
	g.alertSpeed = g.patrolSpeed * cfg.AlertMultiplier
	g.agent.SetSpeed(g.patrolSpeed)
	g.anchor = g.agent.Transform().Position

	if g.route == nil {
		g.log.Warn().Msg("no waypoint route assigned")
	}
	if g.current.Patrolling() && g.route.Len() > 0 {
		g.goTo(g.waypointPosition(g.effectiveIndex(g.route.Len())))
	}
	return g
}

// Tick advances the guard by dt seconds.
func (g *Guard) Tick(dt float64) {
	if g.agent == nil {
		g.log.Error().Msg("no navigation agent")
		return
	}

	switch g.current {
	case StateIdle:
		g.waiting(dt)
	case StateLoopingPatrol:
		g.patrol(g.advanceLooping)
	case StateMirroredPatrol:
		g.patrol(g.advanceMirrored)
	case StateRandomPatrol:
		g.patrol(g.advanceRandom)
	case StateGuard:
		g.guardStance()
	}

	g.lookOut()
	g.head.update(dt, g.rng)
}

// Investigate sends the guard to p at alert speed without changing its
// state. Ignored once the guard is pursuing.
func (g *Guard) Investigate(p common.Vec3) bool {
	if g.foundPlayer {
		g.log.Debug().Msg("investigate ignored during pursuit")
		return false
	}
	if g.agent == nil {
		g.log.Error().Msg("no navigation agent")
		return false
	}
	ok := g.goTo(p)
	g.agent.SetSpeed(g.alertSpeed)
	if ok {
		g.emit(EventInvestigate, p)
	}
	return ok
}

// TravelDistanceToPoint returns the walking distance to p, or +Inf when the
// point is unreachable.
func (g *Guard) TravelDistanceToPoint(p common.Vec3) float64 {
	if g.agent == nil {
		return math.Inf(1)
	}
	return nav.TravelDistance(g.agent, p)
}

func (g *Guard) Position() common.Vec3 {
	if g.agent == nil {
		return g.anchor
	}
	return g.agent.Transform().Position
}

func (g *Guard) Transform() common.Transform {
	if g.agent == nil {
		return common.Transform{Position: g.anchor}
	}
	return g.agent.Transform()
}

func (g *Guard) ID() string            { return g.Name }
func (g *Guard) State() State          { return g.current }
func (g *Guard) PreviousState() State  { return g.previous }
func (g *Guard) FoundPlayer() bool     { return g.foundPlayer }
func (g *Guard) Anchor() common.Vec3   { return g.anchor }
func (g *Guard) Config() Config        { return g.cfg }
func (g *Guard) TimeToWait() float64   { return g.timeToWait }
func (g *Guard) Counter() int          { return g.index }
func (g *Guard) Target() detect.Target { return g.target }

// Route is the waypoint manager the guard patrols, nil for a fixed post.
func (g *Guard) Route() *waypoint.Manager { return g.route }

// HeadYaw is the head's offset from the body heading in degrees.
func (g *Guard) HeadYaw() float64 { return g.head.yaw }

// WaypointIndex is the route index the guard is currently heading for.
func (g *Guard) WaypointIndex() int {
	return g.effectiveIndex(g.route.Len())
}

func (g *Guard) patrol(advance func(n int)) {
	n := g.route.Len()
	if n == 0 {
		g.log.Warn().Str("state", g.current.String()).Msg("no waypoints to patrol")
		return
	}
	if !g.reachedDestination() {
		return
	}
	if !g.waited {
		g.startWaiting()
		return
	}

	advance(n)
	g.goTo(g.waypointPosition(g.effectiveIndex(n)))
	g.agent.SetSpeed(g.patrolSpeed)
	g.waited = false
}

func (g *Guard) advanceLooping(n int) {
	g.index = (g.index + 1) % n
}

// advanceMirrored steps a counter with period 2(n-1); effectiveIndex folds
// the second half back down.
func (g *Guard) advanceMirrored(n int) {
	g.index++
	if g.index >= 2*(n-1) {
		g.index = 0
	}
}

func (g *Guard) advanceRandom(n int) {
	g.index = g.rng.IntN(n)
}

func (g *Guard) effectiveIndex(n int) int {
	if n <= 0 {
		return 0
	}
	if g.mirrored() {
		return mirroredIndex(g.index, n)
	}
	return g.index % n
}

func (g *Guard) mirrored() bool {
	return g.current == StateMirroredPatrol || (g.current == StateIdle && g.previous == StateMirroredPatrol)
}

func mirroredIndex(counter, n int) int {
	if n <= 1 {
		return 0
	}
	if counter > n-1 {
		return 2*(n-1) - counter
	}
	return counter
}

func (g *Guard) guardStance() {
	if !g.reachedDestination() {
		return
	}
	if !g.waited {
		g.startWaiting()
		return
	}
	g.goTo(g.anchor)
	g.agent.SetSpeed(g.patrolSpeed)
	g.waited = false
}

func (g *Guard) startWaiting() {
	g.idleTime = 0
	sample := g.cfg.WaitCurve.Evaluate(g.rng.Float64())
	g.timeToWait = common.Lerp(g.cfg.MinWait, g.cfg.MaxWait, common.Clamp01(sample))
	g.previous = g.current
	g.current = StateIdle
	g.head.start()
	g.emit(EventWaiting, g.Position())
}

func (g *Guard) waiting(dt float64) {
	g.idleTime += dt
	if g.idleTime >= g.timeToWait {
		g.waited = true
		g.current = g.previous
		g.previous = StateIdle
	}
}

func (g *Guard) reachedDestination() bool {
	if g.agent.RemainingDistance() > g.agent.StoppingDistance() {
		return false
	}
	v := g.agent.Velocity()
	return !g.agent.HasPath() || v.Dot(v) == 0
}

func (g *Guard) lookOut() {
	if g.foundPlayer || g.detector == nil {
		return
	}
	target, ok := g.detector.DetectPlayer(g.agent.Transform(), g.cfg.DetectorOffset, g.cfg.ViewRange, g.cfg.ViewAngle, g.Name)
	if !ok {
		return
	}

	g.foundPlayer = true
	g.target = target
	g.current = StatePursuit
	g.head.stop()
	g.agent.SetSpeed(g.alertSpeed)
	g.goTo(target.Position())
	g.log.Info().Msg("player spotted, pursuing")
	g.emit(EventSpotted, target.Position())
}

func (g *Guard) goTo(p common.Vec3) bool {
	if g.agent.SetDestination(p) {
		return true
	}
	g.log.Warn().Floats64("destination", p[:]).Msg("destination rejected")
	return false
}

func (g *Guard) waypointPosition(i int) common.Vec3 {
	p, _ := g.route.Position(i)
	return p
}

func (g *Guard) emit(kind EventKind, p common.Vec3) {
	if g.onEvent != nil {
		g.onEvent(Event{Kind: kind, Guard: g.Name, Position: p})
	}
}
