// Package level runs one stealth level: it owns the world, the systems that
// drive it, and the level outcome that detectors and the exit report into.
package level

import (
	"fmt"
	"sort"
	"strings"

	"github.com/milk9111/stealth/alarm"
	"github.com/milk9111/stealth/camera"
	"github.com/milk9111/stealth/common"
	"github.com/milk9111/stealth/ecs"
	"github.com/milk9111/stealth/ecs/component"
	"github.com/milk9111/stealth/ecs/system"
	"github.com/milk9111/stealth/guard"
	"github.com/milk9111/stealth/nav"
	"github.com/milk9111/stealth/prefabs"
	"github.com/rs/zerolog"
)

type State int

const (
	StatePlaying State = iota
	StateCaught
	StateComplete
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateCaught:
		return "caught"
	case StateComplete:
		return "complete"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Device is anything that takes console commands such as "Ringing" or
// "sentry mode".
type Device interface {
	SetDeviceState(info string) bool
}

// DeviceEvent is the payload of device and level events.
type DeviceEvent struct {
	Name     string
	Info     string
	Position common.Vec3
}

func (e DeviceEvent) Source() string { return e.Name }

// Runtime is a built level. It is the alert sink for every detector and the
// goal for the exit; both transitions happen at most once.
type Runtime struct {
	Name string
	Spec prefabs.LevelSpec

	world     *ecs.World
	scheduler *ecs.Scheduler
	grid      *nav.Grid
	log       zerolog.Logger

	state   State
	player  ecs.Entity
	devices map[string]Device
	script  *system.ScriptSystem
}

func (r *Runtime) World() *ecs.World            { return r.world }
func (r *Runtime) Grid() *nav.Grid              { return r.grid }
func (r *Runtime) Physics() *ecs.PhysicsWorld   { return r.world.PhysicsWorld() }
func (r *Runtime) State() State                 { return r.state }
func (r *Runtime) LevelState() string           { return r.state.String() }
func (r *Runtime) Scheduler() *ecs.Scheduler    { return r.scheduler }
func (r *Runtime) Subscribe(fn func(ecs.Event)) { r.scheduler.Subscribe(fn) }

// Tick advances the level by dt seconds and returns the events it raised.
func (r *Runtime) Tick(dt float64) []ecs.Event {
	return r.scheduler.Step(r.world, dt)
}

// PlayerWasDetected ends a running level as caught.
func (r *Runtime) PlayerWasDetected() {
	if r.state != StatePlaying {
		return
	}
	r.state = StateCaught
	p := r.Player()
	p.Frozen = true
	r.log.Info().Floats64("position", p.Pos[:]).Msg("player detected")
	r.world.Emit(ecs.EventPlayerDetected, DeviceEvent{Name: p.Name, Position: p.Pos})
}

// PlayerReachedExit ends a running level as complete.
func (r *Runtime) PlayerReachedExit() {
	if r.state != StatePlaying {
		return
	}
	r.state = StateComplete
	p := r.Player()
	p.Frozen = true
	r.log.Info().Float64("elapsed", r.world.Elapsed()).Msg("level complete")
	r.world.Emit(ecs.EventLevelComplete, DeviceEvent{Name: r.Name, Position: p.Pos})
}

// SetDeviceState forwards a console command to the named device.
func (r *Runtime) SetDeviceState(name, info string) bool {
	d, ok := r.devices[name]
	if !ok {
		r.log.Warn().Str("device", name).Msg("unknown device")
		return false
	}
	if !d.SetDeviceState(info) {
		r.log.Debug().Str("device", name).Str("info", info).Msg("device state unchanged")
		return false
	}
	r.world.Emit(ecs.EventDeviceCommand, DeviceEvent{Name: name, Info: info})
	return true
}

// Devices lists registered device names in order.
func (r *Runtime) Devices() []string {
	names := make([]string, 0, len(r.devices))
	for name := range r.devices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetPlayerInput steers the player by hand; a zero vector hands control
// back to its route.
func (r *Runtime) SetPlayerInput(dir common.Vec3) {
	if p := r.Player(); p != nil {
		p.Input = dir
	}
}

// ScriptState is a snapshot of the level script's state map, or nil when
// the level has no script.
func (r *Runtime) ScriptState() map[string]any {
	if r.script == nil {
		return nil
	}
	return r.script.State()
}

func (r *Runtime) Player() *component.Player {
	p, _ := ecs.Get(r.world, r.player, component.PlayerComponent.Kind())
	return p
}

func (r *Runtime) Guards() []*guard.Guard {
	var out []*guard.Guard
	ecs.ForEach(r.world, component.GuardComponent.Kind(), func(_ ecs.Entity, g *guard.Guard) {
		out = append(out, g)
	})
	return out
}

func (r *Runtime) Guard(name string) (*guard.Guard, bool) {
	for _, g := range r.Guards() {
		if strings.EqualFold(g.Name, name) {
			return g, true
		}
	}
	return nil, false
}

func (r *Runtime) Cameras() []*camera.SecurityCamera {
	var out []*camera.SecurityCamera
	ecs.ForEach(r.world, component.SecurityCameraComponent.Kind(), func(_ ecs.Entity, c *camera.SecurityCamera) {
		out = append(out, c)
	})
	return out
}

func (r *Runtime) Alarms() []*alarm.Alarm {
	var out []*alarm.Alarm
	ecs.ForEach(r.world, component.AlarmComponent.Kind(), func(_ ecs.Entity, a *alarm.Alarm) {
		out = append(out, a)
	})
	return out
}

func (r *Runtime) EndPoints() []component.EndPoint {
	var out []component.EndPoint
	ecs.ForEach(r.world, component.EndPointComponent.Kind(), func(_ ecs.Entity, ep *component.EndPoint) {
		out = append(out, *ep)
	})
	return out
}
