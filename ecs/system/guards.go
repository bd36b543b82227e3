package system

import (
	"github.com/milk9111/stealth/ecs"
	"github.com/milk9111/stealth/ecs/component"
	"github.com/milk9111/stealth/guard"
)

type GuardSystem struct{}

func NewGuardSystem() *GuardSystem {
	return &GuardSystem{}
}

func (gs *GuardSystem) Update(w *ecs.World) {
	dt := w.DeltaTime()
	ecs.ForEach(w, component.GuardComponent.Kind(), func(e ecs.Entity, g *guard.Guard) {
		g.Tick(dt)
	})
}
