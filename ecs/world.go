package ecs

import (
	"fmt"

	"github.com/milk9111/stealth/ecs/component"
)

// World owns entities, component stores, the level clock and the event
// queue. It is not safe for concurrent use.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]componentStore
	events   EventQueue

	tick    uint64
	dt      float64
	elapsed float64

	physics *PhysicsWorld
}

func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]componentStore)}
}

func CreateEntity(w *World) Entity {
	return w.entities.create()
}

// DestroyEntity drops the entity and all of its components. It returns false
// for stale handles.
func DestroyEntity(w *World, e Entity) bool {
	if !w.entities.destroy(e) {
		return false
	}
	for _, s := range w.stores {
		s.remove(e)
	}
	return true
}

func IsAlive(w *World, e Entity) bool {
	return w.entities.isAlive(e)
}

// Entities lists live entities in slot order.
func Entities(w *World) []Entity {
	return w.entities.all()
}

func store[T any](w *World, kind component.ComponentKind[T], create bool) *sparseSet[T] {
	s, ok := w.stores[kind.ID()]
	if !ok {
		if !create {
			return nil
		}
		ss := &sparseSet[T]{}
		w.stores[kind.ID()] = ss
		return ss
	}
	return s.(*sparseSet[T])
}

// Add sets e's component of the given kind, replacing any previous value.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return fmt.Errorf("add %s: %w", kind.Name(), component.ErrNilComponent)
	}
	if !IsAlive(w, e) {
		return fmt.Errorf("add %s to %s: %w", kind.Name(), e, component.ErrEntityNotAlive)
	}
	store(w, kind, true).set(e, value)
	return nil
}

func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	s := store(w, kind, false)
	if s == nil {
		return nil, false
	}
	return s.get(e)
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	s := store(w, kind, false)
	return s != nil && s.has(e)
}

func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	s := store(w, kind, false)
	return s != nil && s.remove(e)
}

// SetPhysicsWorld attaches the space used for sight rays.
func (w *World) SetPhysicsWorld(pw *PhysicsWorld) {
	w.physics = pw
}

func (w *World) PhysicsWorld() *PhysicsWorld {
	return w.physics
}

// Tick is the number of completed scheduler steps.
func (w *World) Tick() uint64 { return w.tick }

// DeltaTime is the step currently being run, in seconds.
func (w *World) DeltaTime() float64 { return w.dt }

// Elapsed is the simulated time in seconds.
func (w *World) Elapsed() float64 { return w.elapsed }

func (w *World) Events() *EventQueue {
	return &w.events
}

// Emit queues an event stamped with the current tick.
func (w *World) Emit(kind EventType, data any) {
	w.events.Push(Event{Type: kind, Tick: w.tick, Time: w.elapsed, Data: data})
}
