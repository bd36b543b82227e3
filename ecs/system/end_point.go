package system

import (
	"github.com/milk9111/stealth/ecs"
	"github.com/milk9111/stealth/ecs/component"
)

// Goal is told when the player stands inside an exit.
type Goal interface {
	PlayerReachedExit()
}

type EndPointSystem struct {
	goal Goal
}

func NewEndPointSystem(goal Goal) *EndPointSystem {
	return &EndPointSystem{goal: goal}
}

func (es *EndPointSystem) Update(w *ecs.World) {
	if es.goal == nil {
		return
	}
	player, ok := ecs.First(w, component.PlayerComponent.Kind())
	if !ok {
		return
	}
	p, _ := ecs.Get(w, player, component.PlayerComponent.Kind())
	reached := false
	ecs.ForEach(w, component.EndPointComponent.Kind(), func(e ecs.Entity, ep *component.EndPoint) {
		if ep.Contains(p.Pos) {
			reached = true
		}
	})
	if reached {
		es.goal.PlayerReachedExit()
	}
}
