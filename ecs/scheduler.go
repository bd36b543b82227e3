package ecs

// System updates the world once per step. w.DeltaTime() is the step length.
type System interface {
	Update(w *World)
}

// SystemFunc adapts a function to System.
type SystemFunc func(w *World)

func (f SystemFunc) Update(w *World) { f(w) }

// Scheduler runs systems in a fixed order and hands each step's events to
// its listeners once every system has run.
type Scheduler struct {
	systems   []System
	listeners []func(Event)
}

func NewScheduler(systems ...System) *Scheduler {
	copied := append([]System(nil), systems...)
	return &Scheduler{systems: copied}
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

// Subscribe registers fn to receive every event after each step.
func (s *Scheduler) Subscribe(fn func(Event)) {
	if fn == nil {
		return
	}
	s.listeners = append(s.listeners, fn)
}

// Step advances the world by dt seconds and returns the events it raised.
func (s *Scheduler) Step(w *World, dt float64) []Event {
	w.dt = dt
	for _, system := range s.systems {
		system.Update(w)
	}
	w.tick++
	w.elapsed += dt

	events := w.events.Drain()
	for _, evt := range events {
		for _, fn := range s.listeners {
			fn(evt)
		}
	}
	return events
}

func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.systems))
	return append(systems, s.systems...)
}
