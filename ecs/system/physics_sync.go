package system

import (
	"github.com/milk9111/stealth/ecs"
	"github.com/milk9111/stealth/ecs/component"
)

const defaultPlayerRadius = 0.4

// PhysicsSyncSystem keeps the player's collision body where the player is,
// creating it on first sight.
type PhysicsSyncSystem struct{}

func NewPhysicsSyncSystem() *PhysicsSyncSystem {
	return &PhysicsSyncSystem{}
}

func (ps *PhysicsSyncSystem) Update(w *ecs.World) {
	pw := w.PhysicsWorld()
	if pw == nil {
		return
	}
	ecs.ForEach(w, component.PlayerComponent.Kind(), func(e ecs.Entity, p *component.Player) {
		if pw.MoveBody(p.Name, p.Pos) {
			return
		}
		r := p.Radius
		if r <= 0 {
			r = defaultPlayerRadius
		}
		pw.AddBody(p.Name, p.Pos, r)
	})
}
