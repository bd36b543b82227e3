package system

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/stealth/ecs"
	"github.com/milk9111/stealth/ecs/component"
	"github.com/rs/zerolog"
)

// ScriptHost is the part of the level a script may drive.
type ScriptHost interface {
	SetDeviceState(name, info string) bool
	LevelState() string
}

// A level script must define on_start(engine, state), update(engine, state)
// and on_event(engine, state, event).
const levelScriptDispatch = `
if __phase == "start" {
	on_start(__engine, __state)
} else if __phase == "update" {
	update(__engine, __state)
} else if __phase == "event" {
	on_event(__engine, __state, __event)
}
`

// ScriptSystem runs a tengo level script once per tick. Events raised in a
// step are handed to the script at the start of the next one.
type ScriptSystem struct {
	name     string
	compiled *tengo.Compiled
	state    *tengo.Map
	host     ScriptHost
	log      zerolog.Logger

	started bool
	pending []ecs.Event
	seen    map[string]bool
}

func NewScriptSystem(name string, src []byte, host ScriptHost, logger zerolog.Logger) (*ScriptSystem, error) {
	script := tengo.NewScript([]byte(string(src) + "\n" + levelScriptDispatch))
	_ = script.Add("__phase", "")
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	_ = script.Add("__event", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("script %s: compile: %w", name, err)
	}
	return &ScriptSystem{
		name:     name,
		compiled: compiled,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
		host:     host,
		log:      logger.With().Str("script", name).Logger(),
	}, nil
}

// Observe queues an event for the script. Subscribe it to the scheduler.
func (s *ScriptSystem) Observe(evt ecs.Event) {
	s.pending = append(s.pending, evt)
}

// State returns a copy of the script's persistent state map.
func (s *ScriptSystem) State() map[string]any {
	return objectToAny(s.state).(map[string]any)
}

func (s *ScriptSystem) Update(w *ecs.World) {
	if s == nil || s.compiled == nil {
		return
	}

	events := s.pending
	s.pending = nil
	s.seen = make(map[string]bool, len(events))
	for _, evt := range events {
		s.seen[string(evt.Type)] = true
	}

	engine := s.engine(w)
	if !s.started {
		s.started = true
		if err := s.runPhase("start", engine, nil); err != nil {
			s.log.Error().Err(err).Msg("on_start failed")
			return
		}
	}
	for _, evt := range events {
		if err := s.runPhase("event", engine, eventObject(evt)); err != nil {
			s.log.Error().Err(err).Str("event", string(evt.Type)).Msg("on_event failed")
		}
	}
	if err := s.runPhase("update", engine, nil); err != nil {
		s.log.Error().Err(err).Msg("update failed")
	}
}

func (s *ScriptSystem) runPhase(phase string, engine *tengo.ImmutableMap, event *tengo.ImmutableMap) error {
	if event == nil {
		event = &tengo.ImmutableMap{Value: map[string]tengo.Object{}}
	}
	if err := s.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := s.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := s.compiled.Set("__state", s.state); err != nil {
		return err
	}
	if err := s.compiled.Set("__event", event); err != nil {
		return err
	}
	return s.compiled.Run()
}

func (s *ScriptSystem) engine(w *ecs.World) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["set_device_state"] = &tengo.UserFunction{Name: "set_device_state", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if s.host == nil || len(args) < 2 {
			return tengo.FalseValue, nil
		}
		name := strings.TrimSpace(objectAsString(args[0]))
		info := objectAsString(args[1])
		return boolObject(s.host.SetDeviceState(name, info)), nil
	}}

	values["ring_alarm"] = &tengo.UserFunction{Name: "ring_alarm", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if s.host == nil || len(args) < 1 {
			return tengo.FalseValue, nil
		}
		return boolObject(s.host.SetDeviceState(objectAsString(args[0]), "Ringing")), nil
	}}

	values["silence_alarm"] = &tengo.UserFunction{Name: "silence_alarm", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if s.host == nil || len(args) < 1 {
			return tengo.FalseValue, nil
		}
		return boolObject(s.host.SetDeviceState(objectAsString(args[0]), "Silenced")), nil
	}}

	values["level_state"] = &tengo.UserFunction{Name: "level_state", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if s.host == nil {
			return &tengo.String{Value: ""}, nil
		}
		return &tengo.String{Value: s.host.LevelState()}, nil
	}}

	values["elapsed"] = &tengo.UserFunction{Name: "elapsed", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: w.Elapsed()}, nil
	}}

	values["tick"] = &tengo.UserFunction{Name: "tick", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(w.Tick())}, nil
	}}

	values["player_position"] = &tengo.UserFunction{Name: "player_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		x, y, z := 0.0, 0.0, 0.0
		if e, ok := ecs.First(w, component.PlayerComponent.Kind()); ok {
			if p, ok := ecs.Get(w, e, component.PlayerComponent.Kind()); ok {
				x, y, z = p.Pos[0], p.Pos[1], p.Pos[2]
			}
		}
		return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: x}, &tengo.Float{Value: y}, &tengo.Float{Value: z}}}, nil
	}}

	values["event"] = &tengo.UserFunction{Name: "event", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		return boolObject(s.seen[strings.TrimSpace(objectAsString(args[0]))]), nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		s.log.Info().Uint64("tick", w.Tick()).Msg(strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func eventObject(evt ecs.Event) *tengo.ImmutableMap {
	values := map[string]tengo.Object{
		"type": &tengo.String{Value: string(evt.Type)},
		"tick": &tengo.Int{Value: int64(evt.Tick)},
		"time": &tengo.Float{Value: evt.Time},
	}
	if src := evt.Source(); src != "" {
		values["source"] = &tengo.String{Value: src}
	}
	return &tengo.ImmutableMap{Value: values}
}

func boolObject(v bool) tengo.Object {
	if v {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}

func objectToAny(obj tengo.Object) any {
	if obj == nil {
		return nil
	}

	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	case *tengo.Int:
		return int(v.Value)
	case *tengo.Float:
		return v.Value
	case *tengo.Bool:
		return !v.IsFalsy()
	case *tengo.Array:
		out := make([]any, 0, len(v.Value))
		for _, item := range v.Value {
			out = append(out, objectToAny(item))
		}
		return out
	case *tengo.Map:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.Undefined:
		return nil
	default:
		return v.String()
	}
}
