package guard

import (
	"fmt"
	"strings"
)

type State int

const (
	StateIdle State = iota
	StateLoopingPatrol
	StateMirroredPatrol
	StateRandomPatrol
	StateGuard
	StatePursuit
)

var stateNames = map[State]string{
	StateIdle:           "idle",
	StateLoopingPatrol:  "looping_patrol",
	StateMirroredPatrol: "mirrored_patrol",
	StateRandomPatrol:   "random_patrol",
	StateGuard:          "guard",
	StatePursuit:        "pursuit",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Patrolling reports whether s walks a waypoint route.
func (s State) Patrolling() bool {
	return s == StateLoopingPatrol || s == StateMirroredPatrol || s == StateRandomPatrol
}

func ParseState(name string) (State, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	if key == "detected" {
		return StatePursuit, nil
	}
	for s, n := range stateNames {
		if n == key {
			return s, nil
		}
	}
	return StateIdle, fmt.Errorf("guard: unknown state %q", name)
}
