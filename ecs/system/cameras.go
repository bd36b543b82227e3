package system

import (
	"github.com/milk9111/stealth/camera"
	"github.com/milk9111/stealth/ecs"
	"github.com/milk9111/stealth/ecs/component"
)

type CameraSystem struct{}

func NewCameraSystem() *CameraSystem {
	return &CameraSystem{}
}

func (cs *CameraSystem) Update(w *ecs.World) {
	dt := w.DeltaTime()
	ecs.ForEach(w, component.SecurityCameraComponent.Kind(), func(e ecs.Entity, c *camera.SecurityCamera) {
		c.Tick(dt)
		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			*t = c.Transform()
		}
	})
}
