package alarm

import (
	"math"
	"testing"

	"github.com/milk9111/stealth/common"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGuard struct {
	id           string
	pos          common.Vec3
	distance     float64
	accept       bool
	investigated []common.Vec3
}

func (f *fakeGuard) ID() string                                { return f.id }
func (f *fakeGuard) Position() common.Vec3                     { return f.pos }
func (f *fakeGuard) TravelDistanceToPoint(common.Vec3) float64 { return f.distance }
func (f *fakeGuard) Investigate(p common.Vec3) bool {
	f.investigated = append(f.investigated, p)
	return f.accept
}

func newAlarm(t *testing.T, guards ...*fakeGuard) (*Alarm, *[]Event) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Name = "a1"
	cfg.Position = common.Vec3{0, 0, 0}
	turnOff := common.Vec3{2, 0, 0}
	cfg.TurnOffPoint = &turnOff

	var events []Event
	a := New(cfg, zerolog.Nop(), func(e Event) { events = append(events, e) })
	rs := make([]Responder, len(guards))
	for i, g := range guards {
		rs[i] = g
	}
	a.SetResponders(rs)
	return a, &events
}

func kinds(events []Event) []EventKind {
	out := make([]EventKind, len(events))
	for i, e := range events {
		out[i] = e.Kind
	}
	return out
}

func TestSummonsClosestAfterDelay(t *testing.T) {
	far := &fakeGuard{id: "far", pos: common.Vec3{50, 0, 0}, distance: 40, accept: true}
	near := &fakeGuard{id: "near", pos: common.Vec3{30, 0, 0}, distance: 12, accept: true}
	a, events := newAlarm(t, far, near)

	require.True(t, a.SetDeviceState("Alarm Ringing"))
	require.True(t, a.Ringing())

	a.Tick(0.5)
	assert.Empty(t, near.investigated)

	a.Tick(0.5)
	require.Len(t, near.investigated, 1)
	assert.Equal(t, common.Vec3{2, 0, 0}, near.investigated[0])
	assert.Empty(t, far.investigated)

	a.Tick(1)
	assert.Len(t, near.investigated, 1, "guards are only summoned once per ring")
	assert.Equal(t, []EventKind{EventRinging, EventSummoned}, kinds(*events))
	assert.Equal(t, "near", (*events)[1].Responder)
}

func TestTiesGoToLaterGuard(t *testing.T) {
	first := &fakeGuard{id: "first", pos: common.Vec3{50, 0, 0}, distance: 10, accept: true}
	second := &fakeGuard{id: "second", pos: common.Vec3{50, 0, 0}, distance: 10, accept: true}
	a, _ := newAlarm(t, first, second)

	a.Trigger()
	a.Tick(1)
	assert.Empty(t, first.investigated)
	assert.Len(t, second.investigated, 1)
}

func TestDecliningGuardPassesToNext(t *testing.T) {
	busy := &fakeGuard{id: "busy", pos: common.Vec3{10, 0, 0}, distance: 5}
	next := &fakeGuard{id: "next", pos: common.Vec3{30, 0, 0}, distance: 20, accept: true}
	far := &fakeGuard{id: "far", pos: common.Vec3{60, 0, 0}, distance: 50, accept: true}
	a, events := newAlarm(t, far, busy, next)

	a.Trigger()
	a.Tick(1)
	assert.Len(t, busy.investigated, 1)
	assert.Len(t, next.investigated, 1)
	assert.Empty(t, far.investigated)
	require.Equal(t, []EventKind{EventRinging, EventSummoned}, kinds(*events))
	assert.Equal(t, "next", (*events)[1].Responder)

	nobody := &fakeGuard{id: "nobody", distance: 5}
	b, bEvents := newAlarm(t, nobody)
	b.Trigger()
	b.Tick(1)
	assert.Len(t, nobody.investigated, 1)
	assert.Equal(t, []EventKind{EventRinging}, kinds(*bEvents))
}

func TestUnreachableGuardsSkipped(t *testing.T) {
	stuck := &fakeGuard{id: "stuck", pos: common.Vec3{50, 0, 0}, distance: math.Inf(1), accept: true}
	ok := &fakeGuard{id: "ok", pos: common.Vec3{60, 0, 0}, distance: 80, accept: true}
	a, _ := newAlarm(t, ok, stuck)

	a.Trigger()
	a.Tick(1)
	assert.Len(t, ok.investigated, 1)
	assert.Empty(t, stuck.investigated)

	lonely := &fakeGuard{id: "lonely", pos: common.Vec3{50, 0, 0}, distance: math.Inf(1)}
	b, events := newAlarm(t, lonely)
	b.Trigger()
	b.Tick(1)
	assert.Empty(t, lonely.investigated)
	assert.Equal(t, []EventKind{EventRinging}, kinds(*events))
}

func TestGuardInZoneSilences(t *testing.T) {
	g := &fakeGuard{id: "g", pos: common.Vec3{20, 0, 0}, distance: 20, accept: true}
	a, events := newAlarm(t, g)

	a.Trigger()
	a.Tick(1)
	require.True(t, a.Ringing())

	g.pos = common.Vec3{1, 0, -1}
	a.Tick(0.1)
	require.True(t, a.Ringing())
	a.Tick(0.3)
	require.True(t, a.Ringing())
	a.Tick(0.2)
	assert.False(t, a.Ringing())
	assert.Equal(t, []EventKind{EventRinging, EventSummoned, EventSilenced}, kinds(*events))
}

func TestRepeatedStateIsNoop(t *testing.T) {
	a, events := newAlarm(t)

	a.Silence()
	assert.Empty(t, *events)

	a.Trigger()
	a.Trigger()
	assert.Len(t, *events, 1)

	assert.True(t, a.SetDeviceState("Silenced"))
	assert.False(t, a.Ringing())
	assert.False(t, a.SetDeviceState("blinking"))
}

func TestDelaysHaveFloor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GuardAlertDelay = 0
	cfg.TurnOffDelay = -3
	a := New(cfg, zerolog.Nop(), nil)
	assert.Equal(t, 0.1, a.Config().GuardAlertDelay)
	assert.Equal(t, 0.1, a.Config().TurnOffDelay)
}

func TestDestinationFallsBackToAlarm(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Position = common.Vec3{4, 0, 4}
	a := New(cfg, zerolog.Nop(), nil)
	assert.Equal(t, cfg.Position, a.Destination())

	assert.True(t, a.InZone(common.Vec3{5.5, 3, 2.5}))
	assert.False(t, a.InZone(common.Vec3{5.6, 0, 4}))
}
