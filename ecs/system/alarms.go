package system

import (
	"github.com/milk9111/stealth/alarm"
	"github.com/milk9111/stealth/ecs"
	"github.com/milk9111/stealth/ecs/component"
)

type AlarmSystem struct{}

func NewAlarmSystem() *AlarmSystem {
	return &AlarmSystem{}
}

func (as *AlarmSystem) Update(w *ecs.World) {
	dt := w.DeltaTime()
	ecs.ForEach(w, component.AlarmComponent.Kind(), func(e ecs.Entity, a *alarm.Alarm) {
		a.Tick(dt)
	})
}
