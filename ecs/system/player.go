package system

import (
	"github.com/milk9111/stealth/common"
	"github.com/milk9111/stealth/ecs"
	"github.com/milk9111/stealth/ecs/component"
	"github.com/milk9111/stealth/nav"
)

const playerArriveEpsilon = 1e-3

// PlayerSystem walks the player along its route, or in the direction of its
// input when one is set. The grid, when given, keeps the player out of walls.
type PlayerSystem struct {
	grid *nav.Grid
}

func NewPlayerSystem(grid *nav.Grid) *PlayerSystem {
	return &PlayerSystem{grid: grid}
}

func (ps *PlayerSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	dt := w.DeltaTime()
	ecs.ForEach(w, component.PlayerComponent.Kind(), func(e ecs.Entity, p *component.Player) {
		if p.Frozen || dt <= 0 {
			return
		}
		if in := common.Flat(p.Input); in.Len() > 0 {
			ps.steer(p, in, dt)
			return
		}
		ps.followRoute(p, dt)
	})
}

func (ps *PlayerSystem) steer(p *component.Player, dir common.Vec3, dt float64) {
	next := p.Pos.Add(common.SafeNormalize(dir).Mul(p.Speed * dt))
	if ps.grid != nil && !ps.grid.Walkable(next) {
		return
	}
	p.Heading = common.YawTo(p.Pos, next)
	p.Pos = next
}

func (ps *PlayerSystem) followRoute(p *component.Player, dt float64) {
	budget := p.Speed * dt
	// one lap at most per tick, so a looped route of coincident points ends
	for hops := 0; budget > 0 && p.NextPoint < len(p.Route) && hops <= len(p.Route); hops++ {
		target := p.Route[p.NextPoint]
		leg := common.Flat(target.Sub(p.Pos))
		dist := leg.Len()
		if dist > playerArriveEpsilon {
			p.Heading = common.YawTo(p.Pos, target)
		}
		if dist > budget {
			p.Pos = p.Pos.Add(leg.Mul(budget / dist))
			return
		}
		p.Pos = common.Vec3{target[0], p.Pos[1], target[2]}
		budget -= dist
		p.NextPoint++
		if p.NextPoint >= len(p.Route) && p.LoopRoute {
			p.NextPoint = 0
		}
	}
}
