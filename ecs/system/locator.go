package system

import (
	"github.com/milk9111/stealth/detect"
	"github.com/milk9111/stealth/ecs"
	"github.com/milk9111/stealth/ecs/component"
)

// PlayerLocator finds the player entity for detectors.
type PlayerLocator struct {
	w *ecs.World
}

func NewPlayerLocator(w *ecs.World) *PlayerLocator {
	return &PlayerLocator{w: w}
}

func (l *PlayerLocator) LocatePlayer() (detect.Target, bool) {
	if l == nil || l.w == nil {
		return nil, false
	}
	e, ok := ecs.First(l.w, component.PlayerComponent.Kind())
	if !ok {
		return nil, false
	}
	p, ok := ecs.Get(l.w, e, component.PlayerComponent.Kind())
	if !ok {
		return nil, false
	}
	return p, true
}
