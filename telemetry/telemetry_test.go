package telemetry

import (
	"testing"

	"github.com/milk9111/stealth/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

type named string

func (n named) Source() string { return string(n) }

func TestRecorderTallies(t *testing.T) {
	r, err := New(noop.Meter{})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		r.Tick()
	}
	r.Observe(ecs.Event{Type: ecs.EventGuardSpotted, Data: named("rook")})
	r.Observe(ecs.Event{Type: ecs.EventCameraSpotted, Data: named("vault_cam")})
	r.Observe(ecs.Event{Type: ecs.EventAlarmSummoned})
	r.Observe(ecs.Event{Type: ecs.EventGuardSpotted, Data: named("bishop")})

	assert.Equal(t, uint64(3), r.Ticks())
	assert.Equal(t, map[ecs.EventType]int64{
		ecs.EventGuardSpotted:  2,
		ecs.EventCameraSpotted: 1,
		ecs.EventAlarmSummoned: 1,
	}, r.Counts())
}

func TestCountsIsACopy(t *testing.T) {
	r, err := New(Meter())
	require.NoError(t, err)

	r.Observe(ecs.Event{Type: ecs.EventLevelComplete})
	c := r.Counts()
	c[ecs.EventLevelComplete] = 99
	assert.Equal(t, int64(1), r.Counts()[ecs.EventLevelComplete])
}
