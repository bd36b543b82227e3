// Package telemetry counts simulation activity on OpenTelemetry instruments.
package telemetry

import (
	"context"
	"fmt"
	"sync"

	"github.com/milk9111/stealth/ecs"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/milk9111/stealth/telemetry"

// Meter returns the meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Recorder feeds ticks and level events into counters. It also keeps its own
// tallies so a run summary does not need a metrics backend.
type Recorder struct {
	ticks          metric.Int64Counter
	events         metric.Int64Counter
	detections     metric.Int64Counter
	summons        metric.Int64Counter
	investigations metric.Int64Counter

	mu     sync.Mutex
	total  uint64
	counts map[ecs.EventType]int64
}

func New(m metric.Meter) (*Recorder, error) {
	r := &Recorder{counts: make(map[ecs.EventType]int64)}

	var err error
	r.ticks, err = m.Int64Counter(
		"guardsim.ticks",
		metric.WithDescription("Simulation steps taken"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tick counter: %w", err)
	}

	r.events, err = m.Int64Counter(
		"guardsim.events",
		metric.WithDescription("Level events raised, by type"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating event counter: %w", err)
	}

	r.detections, err = m.Int64Counter(
		"guardsim.detections",
		metric.WithDescription("Times a guard or camera spotted the player"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating detection counter: %w", err)
	}

	r.summons, err = m.Int64Counter(
		"guardsim.alarm.summons",
		metric.WithDescription("Guards sent to a ringing alarm"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating summon counter: %w", err)
	}

	r.investigations, err = m.Int64Counter(
		"guardsim.guard.investigations",
		metric.WithDescription("Guards that started investigating a point"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating investigation counter: %w", err)
	}

	return r, nil
}

// Tick counts one simulation step.
func (r *Recorder) Tick() {
	r.ticks.Add(context.Background(), 1)
	r.mu.Lock()
	r.total++
	r.mu.Unlock()
}

// Observe counts one level event. It has the shape of a scheduler listener.
func (r *Recorder) Observe(evt ecs.Event) {
	ctx := context.Background()
	attrs := metric.WithAttributes(
		attribute.String("type", string(evt.Type)),
		attribute.String("source", evt.Source()),
	)

	r.events.Add(ctx, 1, attrs)
	switch evt.Type {
	case ecs.EventGuardSpotted, ecs.EventCameraSpotted:
		r.detections.Add(ctx, 1, attrs)
	case ecs.EventAlarmSummoned:
		r.summons.Add(ctx, 1, attrs)
	case ecs.EventGuardInvestigate:
		r.investigations.Add(ctx, 1, attrs)
	}

	r.mu.Lock()
	r.counts[evt.Type]++
	r.mu.Unlock()
}

func (r *Recorder) Ticks() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total
}

// Counts is a copy of the per-type event tallies.
func (r *Recorder) Counts() map[ecs.EventType]int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[ecs.EventType]int64, len(r.counts))
	for k, v := range r.counts {
		out[k] = v
	}
	return out
}
