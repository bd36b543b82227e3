package level

import (
	"fmt"
	"math/rand/v2"

	"github.com/milk9111/stealth/alarm"
	"github.com/milk9111/stealth/camera"
	"github.com/milk9111/stealth/common"
	"github.com/milk9111/stealth/detect"
	"github.com/milk9111/stealth/ecs"
	"github.com/milk9111/stealth/ecs/component"
	"github.com/milk9111/stealth/ecs/system"
	"github.com/milk9111/stealth/guard"
	"github.com/milk9111/stealth/nav"
	"github.com/milk9111/stealth/prefabs"
	"github.com/milk9111/stealth/waypoint"
	"github.com/rs/zerolog"
)

const (
	defaultPlayerName     = "player"
	defaultPlayerSpeed    = 2.5
	defaultPlayerRadius   = 0.4
	defaultGuardSpeed     = 2.0
	defaultGuardStopping  = 0.2
	defaultEndPointExtent = 1.0
)

type Options struct {
	Logger zerolog.Logger
	// Seed feeds every guard's random source; the same seed replays the
	// same level.
	Seed uint64
	// Script overrides the level's own script source when set.
	Script []byte
}

// Load reads a level spec by name and builds it.
func Load(name string, opts Options) (*Runtime, error) {
	spec, err := prefabs.LoadLevelSpec(name)
	if err != nil {
		return nil, err
	}
	return Build(spec, opts)
}

// Build constructs the world, services and systems for spec.
func Build(spec prefabs.LevelSpec, opts Options) (*Runtime, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("level %s: %w", spec.Name, err)
	}

	log := opts.Logger.With().Str("level", spec.Name).Logger()
	w := ecs.NewWorld()
	r := &Runtime{
		Name:    spec.Name,
		Spec:    spec,
		world:   w,
		log:     log,
		devices: make(map[string]Device),
	}

	b := spec.Bounds
	cell := spec.CellSize
	if cell <= 0 {
		cell = nav.DefaultCellSize
	}
	r.grid = nav.NewGrid(b.MinX, b.MinZ, b.MaxX, b.MaxZ, cell)

	pw := ecs.NewPhysicsWorld()
	for _, ws := range spec.Walls {
		pw.AddWall(ecs.Wall{Name: ws.Name, MinX: ws.MinX, MinZ: ws.MinZ, MaxX: ws.MaxX, MaxZ: ws.MaxZ})
		r.grid.Block(ws.MinX, ws.MinZ, ws.MaxX, ws.MaxZ)
	}
	w.SetPhysicsWorld(pw)

	if err := r.addPlayer(*spec.Player); err != nil {
		return nil, err
	}
	if spec.EndPoint != nil {
		if err := r.addEndPoint(*spec.EndPoint); err != nil {
			return nil, err
		}
	}

	detector := detect.NewPlayerDetector(system.NewPlayerLocator(w), pw, r, log)

	routes := make(map[string]prefabs.RouteSpec, len(spec.Routes))
	for _, rs := range spec.Routes {
		routes[rs.Name] = rs
	}
	var responders []alarm.Responder
	for i, gs := range spec.Guards {
		g, err := r.addGuard(gs, routes, detector, rand.New(rand.NewPCG(opts.Seed, uint64(i+1))))
		if err != nil {
			return nil, err
		}
		responders = append(responders, g)
	}
	for _, cs := range spec.Cameras {
		if err := r.addCamera(cs, detector); err != nil {
			return nil, err
		}
	}
	for _, as := range spec.Alarms {
		if err := r.addAlarm(as, responders); err != nil {
			return nil, err
		}
	}

	r.scheduler = ecs.NewScheduler()
	src := opts.Script
	if src == nil && spec.Script != "" {
		data, err := prefabs.LoadScript(spec.Script)
		if err != nil {
			return nil, fmt.Errorf("level %s: script %s: %w", spec.Name, spec.Script, err)
		}
		src = data
	}
	if src != nil {
		name := spec.Script
		if name == "" {
			name = "inline"
		}
		script, err := system.NewScriptSystem(name, src, r, log)
		if err != nil {
			return nil, fmt.Errorf("level %s: %w", spec.Name, err)
		}
		r.scheduler.Add(script)
		r.scheduler.Subscribe(script.Observe)
		r.script = script
	}
	r.scheduler.Add(system.NewPlayerSystem(r.grid))
	r.scheduler.Add(system.NewNavigationSystem())
	r.scheduler.Add(system.NewPhysicsSyncSystem())
	r.scheduler.Add(system.NewGuardSystem())
	r.scheduler.Add(system.NewCameraSystem())
	r.scheduler.Add(system.NewAlarmSystem())
	r.scheduler.Add(system.NewEndPointSystem(r))

	log.Info().
		Int("guards", len(spec.Guards)).
		Int("cameras", len(spec.Cameras)).
		Int("alarms", len(spec.Alarms)).
		Msg("level built")
	return r, nil
}

func (r *Runtime) addPlayer(ps prefabs.PlayerSpec) error {
	p := &component.Player{
		Name:      ps.Name,
		Pos:       ps.Position.Vec3(),
		Speed:     ps.Speed,
		Radius:    ps.Radius,
		Route:     prefabs.Vec3s(ps.Route),
		LoopRoute: ps.Loop,
	}
	if p.Name == "" {
		p.Name = defaultPlayerName
	}
	if p.Speed <= 0 {
		p.Speed = defaultPlayerSpeed
	}
	if p.Radius <= 0 {
		p.Radius = defaultPlayerRadius
	}

	e := ecs.CreateEntity(r.world)
	if err := ecs.Add(r.world, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{}); err != nil {
		return err
	}
	if err := ecs.Add(r.world, e, component.PlayerComponent.Kind(), p); err != nil {
		return err
	}
	r.world.PhysicsWorld().AddBody(p.Name, p.Pos, p.Radius)
	r.player = e
	return nil
}

func (r *Runtime) addEndPoint(es prefabs.EndSpec) error {
	ep := &component.EndPoint{Position: es.Position.Vec3(), HalfX: es.HalfX, HalfZ: es.HalfZ}
	if ep.HalfX <= 0 {
		ep.HalfX = defaultEndPointExtent
	}
	if ep.HalfZ <= 0 {
		ep.HalfZ = defaultEndPointExtent
	}
	e := ecs.CreateEntity(r.world)
	return ecs.Add(r.world, e, component.EndPointComponent.Kind(), ep)
}

func (r *Runtime) addGuard(gs prefabs.GuardSpec, routes map[string]prefabs.RouteSpec, detector guard.Detector, rng *rand.Rand) (*guard.Guard, error) {
	cfg, err := guardConfig(gs)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", r.Name, err)
	}

	speed := gs.Speed
	if speed <= 0 {
		speed = defaultGuardSpeed
	}
	stopping := gs.StoppingDistance
	if stopping <= 0 {
		stopping = defaultGuardStopping
	}
	agent := nav.NewGridAgent(r.grid, gs.Position.Vec3(), gs.Heading, speed, stopping)

	var route *waypoint.Manager
	if rs, ok := routes[gs.Route]; ok {
		route = waypoint.NewManager(rs.Name, rs.Origin.Vec3())
		for _, p := range rs.Points {
			route.Add(waypoint.New(p.Vec3()), -1)
		}
	}

	g := guard.New(cfg, guard.Deps{
		Agent:    agent,
		Route:    route,
		Detector: detector,
		Rand:     rng,
		Log:      r.log,
		OnEvent:  r.guardEvent,
	})

	e := ecs.CreateEntity(r.world)
	tr := agent.Transform()
	for _, err := range []error{
		ecs.Add(r.world, e, component.GuardTagComponent.Kind(), &component.GuardTag{}),
		ecs.Add(r.world, e, component.GuardComponent.Kind(), g),
		ecs.Add(r.world, e, component.NavAgentComponent.Kind(), agent),
		ecs.Add(r.world, e, component.TransformComponent.Kind(), &tr),
	} {
		if err != nil {
			return nil, err
		}
	}
	if route != nil {
		if err := ecs.Add(r.world, e, component.RouteComponent.Kind(), route); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func guardConfig(gs prefabs.GuardSpec) (guard.Config, error) {
	cfg := guard.DefaultConfig()
	cfg.Name = gs.Name
	if gs.State != "" {
		st, err := guard.ParseState(gs.State)
		if err != nil {
			return cfg, fmt.Errorf("guard %s: %w", gs.Name, err)
		}
		cfg.State = st
	}
	setIfPositive(&cfg.AlertMultiplier, gs.AlertMultiplier)
	if gs.MinWait != nil {
		cfg.MinWait = *gs.MinWait
	}
	if gs.MaxWait != nil {
		cfg.MaxWait = *gs.MaxWait
	}
	setIfPositive(&cfg.ViewRange, gs.ViewRange)
	setIfPositive(&cfg.ViewAngle, gs.ViewAngle)
	setIfPositive(&cfg.HeadRange, gs.HeadRange)
	setIfPositive(&cfg.MinLookSpeed, gs.MinLookSpeed)
	setIfPositive(&cfg.MaxLookSpeed, gs.MaxLookSpeed)
	if gs.DetectorOffset != nil {
		cfg.DetectorOffset = gs.DetectorOffset.Vec3()
	}
	if len(gs.WaitCurve) > 0 {
		keys := make([]guard.Key, len(gs.WaitCurve))
		for i, k := range gs.WaitCurve {
			keys[i] = guard.Key{Time: k.Time, Value: k.Value}
		}
		cfg.WaitCurve = guard.Curve{Keys: keys}
	}
	return cfg, nil
}

func (r *Runtime) addCamera(cs prefabs.CameraSpec, detector camera.Detector) error {
	cfg := camera.DefaultConfig()
	cfg.Name = cs.Name
	cfg.Position = cs.Position.Vec3()
	if cs.State != "" {
		st, err := camera.ParseState(cs.State)
		if err != nil {
			return fmt.Errorf("level %s: camera %s: %w", r.Name, cs.Name, err)
		}
		cfg.State = st
	}
	if cs.Left != nil {
		cfg.Left = cs.Left.Vec3()
	}
	if cs.Right != nil {
		cfg.Right = cs.Right.Vec3()
	}
	setIfPositive(&cfg.SweepSpeed, cs.SweepSpeed)
	setIfPositive(&cfg.ViewRange, cs.ViewRange)
	setIfPositive(&cfg.ViewAngle, cs.ViewAngle)
	setIfPositive(&cfg.TrackGain, cs.TrackGain)
	setIfPositive(&cfg.MaxTurnSpeed, cs.MaxTurnSpeed)

	cam := camera.New(cfg, detector, r.log, r.cameraSpotted)
	e := ecs.CreateEntity(r.world)
	tr := cam.Transform()
	for _, err := range []error{
		ecs.Add(r.world, e, component.SecurityCameraComponent.Kind(), cam),
		ecs.Add(r.world, e, component.TransformComponent.Kind(), &tr),
		ecs.Add(r.world, e, component.DeviceComponent.Kind(), &component.Device{Name: cs.Name, Kind: component.DeviceCamera}),
	} {
		if err != nil {
			return err
		}
	}
	r.devices[cs.Name] = cam
	return nil
}

func (r *Runtime) addAlarm(as prefabs.AlarmSpec, responders []alarm.Responder) error {
	cfg := alarm.DefaultConfig()
	cfg.Name = as.Name
	cfg.Position = as.Position.Vec3()
	if as.TurnOffPoint != nil {
		p := as.TurnOffPoint.Vec3()
		cfg.TurnOffPoint = &p
	}
	if as.Zone != nil {
		cfg.Zone = as.Zone.Vec3()
	}
	setIfPositive(&cfg.GuardAlertDelay, as.GuardAlertDelay)
	setIfPositive(&cfg.TurnOffDelay, as.TurnOffDelay)

	a := alarm.New(cfg, r.log, r.alarmEvent)
	a.SetResponders(responders)

	e := ecs.CreateEntity(r.world)
	for _, err := range []error{
		ecs.Add(r.world, e, component.AlarmComponent.Kind(), a),
		ecs.Add(r.world, e, component.DeviceComponent.Kind(), &component.Device{Name: as.Name, Kind: component.DeviceAlarm}),
	} {
		if err != nil {
			return err
		}
	}
	r.devices[as.Name] = a
	return nil
}

func (r *Runtime) guardEvent(e guard.Event) {
	switch e.Kind {
	case guard.EventSpotted:
		r.world.Emit(ecs.EventGuardSpotted, e)
	case guard.EventInvestigate:
		r.world.Emit(ecs.EventGuardInvestigate, e)
	case guard.EventWaiting:
		r.world.Emit(ecs.EventGuardWaiting, e)
	}
}

func (r *Runtime) cameraSpotted(name string, p common.Vec3) {
	r.world.Emit(ecs.EventCameraSpotted, DeviceEvent{Name: name, Position: p})
}

func (r *Runtime) alarmEvent(e alarm.Event) {
	switch e.Kind {
	case alarm.EventRinging:
		r.world.Emit(ecs.EventAlarmRinging, e)
	case alarm.EventSilenced:
		r.world.Emit(ecs.EventAlarmSilenced, e)
	case alarm.EventSummoned:
		r.world.Emit(ecs.EventAlarmSummoned, e)
	}
}

func setIfPositive(dst *float64, v float64) {
	if v > 0 {
		*dst = v
	}
}
