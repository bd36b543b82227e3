package level

import (
	"testing"

	"github.com/milk9111/stealth/camera"
	"github.com/milk9111/stealth/ecs"
	"github.com/milk9111/stealth/prefabs"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func room() prefabs.LevelSpec {
	return prefabs.LevelSpec{
		Name:   "room",
		Bounds: prefabs.BoundsSpec{MinX: 0, MinZ: 0, MaxX: 20, MaxZ: 20},
		Player: &prefabs.PlayerSpec{Name: "player", Position: prefabs.Vec3Spec{10, 0, 18}},
	}
}

// boxedPlayer puts the player inside a closed box so nothing can see it.
func boxedPlayer(spec *prefabs.LevelSpec) {
	spec.Player.Position = prefabs.Vec3Spec{2.5, 0, 2.5}
	spec.Walls = []prefabs.WallSpec{
		{Name: "s", MinX: 0, MinZ: 0, MaxX: 5, MaxZ: 0.5},
		{Name: "n", MinX: 0, MinZ: 4.5, MaxX: 5, MaxZ: 5},
		{Name: "w", MinX: 0, MinZ: 0, MaxX: 0.5, MaxZ: 5},
		{Name: "e", MinX: 4.5, MinZ: 0, MaxX: 5, MaxZ: 5},
	}
}

func build(t *testing.T, spec prefabs.LevelSpec, script string) *Runtime {
	t.Helper()
	opts := Options{Logger: zerolog.Nop(), Seed: 7}
	if script != "" {
		opts.Script = []byte(script)
	}
	r, err := Build(spec, opts)
	require.NoError(t, err)
	return r
}

func count(events []ecs.Event, kind ecs.EventType) int {
	n := 0
	for _, e := range events {
		if e.Type == kind {
			n++
		}
	}
	return n
}

func TestGuardCatchesPlayer(t *testing.T) {
	spec := room()
	spec.Guards = []prefabs.GuardSpec{{Name: "g", State: "guard", Position: prefabs.Vec3Spec{10, 0, 2}, ViewRange: 20}}
	r := build(t, spec, "")

	var all []ecs.Event
	r.Subscribe(func(e ecs.Event) { all = append(all, e) })

	r.Tick(0.1)
	assert.Equal(t, StateCaught, r.State())
	assert.True(t, r.Player().Frozen)

	g, ok := r.Guard("G")
	require.True(t, ok)
	assert.True(t, g.FoundPlayer())

	for i := 0; i < 20; i++ {
		r.Tick(0.1)
	}
	assert.Equal(t, 1, count(all, ecs.EventPlayerDetected))
	assert.Equal(t, 1, count(all, ecs.EventGuardSpotted))

	r.PlayerReachedExit()
	assert.Equal(t, StateCaught, r.State(), "outcome is final")
}

func TestCameraDetectionIsIdempotent(t *testing.T) {
	spec := room()
	spec.Player.Position = prefabs.Vec3Spec{10, 0, 8}
	still := prefabs.Vec3Spec{20, 0, 0}
	spec.Cameras = []prefabs.CameraSpec{{
		Name: "cam", State: "static", Position: prefabs.Vec3Spec{10, 3, 0},
		Left: &still, Right: &still, ViewRange: 12,
	}}
	r := build(t, spec, "")

	var all []ecs.Event
	r.Subscribe(func(e ecs.Event) { all = append(all, e) })
	for i := 0; i < 10; i++ {
		r.Tick(0.1)
	}

	assert.Equal(t, StateCaught, r.State())
	assert.Equal(t, 1, count(all, ecs.EventPlayerDetected))
	assert.Equal(t, 1, count(all, ecs.EventCameraSpotted))
	assert.Equal(t, camera.StateDetected, r.Cameras()[0].State())
}

func TestPlayerReachesExit(t *testing.T) {
	spec := room()
	spec.Player.Position = prefabs.Vec3Spec{1, 0, 1}
	spec.Player.Route = []prefabs.Vec3Spec{{9, 0, 9}}
	spec.EndPoint = &prefabs.EndSpec{Position: prefabs.Vec3Spec{9, 0, 9}}
	r := build(t, spec, "")

	var all []ecs.Event
	r.Subscribe(func(e ecs.Event) { all = append(all, e) })
	for i := 0; i < 100 && r.State() == StatePlaying; i++ {
		r.Tick(0.1)
	}
	require.Equal(t, StateComplete, r.State())

	at := r.Player().Pos
	for i := 0; i < 10; i++ {
		r.Tick(0.1)
	}
	assert.Equal(t, at, r.Player().Pos, "player is frozen after the exit")
	assert.Equal(t, 1, count(all, ecs.EventLevelComplete))

	r.PlayerWasDetected()
	assert.Equal(t, StateComplete, r.State())
}

func TestDeviceRegistry(t *testing.T) {
	spec := room()
	boxedPlayer(&spec)
	spec.Cameras = []prefabs.CameraSpec{{Name: "cam", Position: prefabs.Vec3Spec{15, 3, 15}}}
	spec.Alarms = []prefabs.AlarmSpec{{Name: "bell", Position: prefabs.Vec3Spec{10, 0, 10}}}
	r := build(t, spec, "")

	assert.Equal(t, []string{"bell", "cam"}, r.Devices())
	assert.True(t, r.SetDeviceState("cam", "Set to STATIC"))
	assert.Equal(t, camera.StateStatic, r.Cameras()[0].State())
	assert.False(t, r.SetDeviceState("cam", "reboot"))
	assert.False(t, r.SetDeviceState("door", "Ringing"))

	events := r.Tick(0.1)
	assert.Equal(t, 1, count(events, ecs.EventDeviceCommand))
}

func TestScriptedAlarmSummonsGuard(t *testing.T) {
	const script = `
on_start := func(engine, state) {
	state.ok = engine.ring_alarm("bell")
}
update := func(engine, state) {}
on_event := func(engine, state, event) {
	if event.type == "alarm_silenced" {
		state.silenced = event.source
	}
}
`
	spec := room()
	boxedPlayer(&spec)
	spec.Guards = []prefabs.GuardSpec{{Name: "g", State: "guard", Position: prefabs.Vec3Spec{15, 0, 15}, Heading: 180}}
	spec.Alarms = []prefabs.AlarmSpec{{Name: "bell", Position: prefabs.Vec3Spec{15, 0, 5}}}
	r := build(t, spec, script)

	var all []ecs.Event
	r.Subscribe(func(e ecs.Event) { all = append(all, e) })

	r.Tick(0.1)
	require.True(t, r.Alarms()[0].Ringing())
	assert.Equal(t, true, r.ScriptState()["ok"])

	for i := 0; i < 300 && r.Alarms()[0].Ringing(); i++ {
		r.Tick(0.1)
	}
	require.False(t, r.Alarms()[0].Ringing(), "guard should reach the alarm and switch it off")
	r.Tick(0.1)

	assert.Equal(t, StatePlaying, r.State())
	assert.Equal(t, 1, count(all, ecs.EventAlarmSummoned))
	assert.Equal(t, 1, count(all, ecs.EventGuardInvestigate))
	assert.Equal(t, 1, count(all, ecs.EventAlarmSilenced))
	assert.Equal(t, "bell", r.ScriptState()["silenced"])
}

func TestGuardWaitBounds(t *testing.T) {
	cases := []struct {
		name     string
		doc      string
		min, max float64
	}{
		{"defaults", "name: g", 1, 3},
		{"zero_min", "{name: g, min_wait: 0, max_wait: 0.5}", 0, 0.5},
		{"zero_both", "{name: g, min_wait: 0, max_wait: 0}", 0, 0},
		{"reversed", "{name: g, min_wait: 2, max_wait: 0.5}", 0.5, 2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var gs prefabs.GuardSpec
			require.NoError(t, yaml.Unmarshal([]byte(c.doc), &gs))
			gs.State = "guard"
			gs.Position = prefabs.Vec3Spec{10, 0, 2}

			spec := room()
			boxedPlayer(&spec)
			spec.Guards = []prefabs.GuardSpec{gs}
			r := build(t, spec, "")

			guards := r.Guards()
			require.Len(t, guards, 1)
			cfg := guards[0].Config()
			assert.Equal(t, c.min, cfg.MinWait)
			assert.Equal(t, c.max, cfg.MaxWait)
		})
	}
}

func TestBuildErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*prefabs.LevelSpec)
		script string
	}{
		{"invalid_spec", func(s *prefabs.LevelSpec) { s.Player = nil }, ""},
		{"bad_guard_state", func(s *prefabs.LevelSpec) {
			s.Guards = []prefabs.GuardSpec{{Name: "g", State: "dancing"}}
		}, ""},
		{"bad_camera_state", func(s *prefabs.LevelSpec) {
			s.Cameras = []prefabs.CameraSpec{{Name: "c", State: "panning"}}
		}, ""},
		{"script_missing_hooks", func(*prefabs.LevelSpec) {}, "x := 1"},
		{"missing_script_file", func(s *prefabs.LevelSpec) { s.Script = "nope.tengo" }, ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			spec := room()
			c.mutate(&spec)
			opts := Options{Logger: zerolog.Nop()}
			if c.script != "" {
				opts.Script = []byte(c.script)
			}
			_, err := Build(spec, opts)
			assert.Error(t, err)
		})
	}
}

func TestVaultRuns(t *testing.T) {
	r, err := Load("vault", Options{Logger: zerolog.Nop(), Seed: 1})
	require.NoError(t, err)
	assert.Len(t, r.Guards(), 3)
	assert.Len(t, r.Cameras(), 2)
	assert.Len(t, r.Alarms(), 1)
	assert.Len(t, r.EndPoints(), 1)
	assert.NotContains(t, r.ScriptState(), "rang")

	for i := 0; i < 600 && r.State() == StatePlaying; i++ {
		r.Tick(1.0 / 30)
	}
	assert.Contains(t, []State{StatePlaying, StateCaught, StateComplete}, r.State())
	assert.Contains(t, r.ScriptState(), "rang", "on_start ran")
}
