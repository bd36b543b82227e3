package system

import (
	"github.com/milk9111/stealth/ecs"
	"github.com/milk9111/stealth/ecs/component"
	"github.com/milk9111/stealth/nav"
)

// NavigationSystem moves every navigation agent along its path and mirrors
// the agent pose into the entity transform.
type NavigationSystem struct{}

func NewNavigationSystem() *NavigationSystem {
	return &NavigationSystem{}
}

func (ns *NavigationSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.DeltaTime()
	ecs.ForEach(w, component.NavAgentComponent.Kind(), func(e ecs.Entity, a *nav.GridAgent) {
		a.Step(dt)
		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			*t = a.Transform()
		}
	})
}
