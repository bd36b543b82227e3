package ecs

type EventType string

const (
	EventPlayerDetected   EventType = "player_detected"
	EventGuardSpotted     EventType = "guard_spotted"
	EventGuardInvestigate EventType = "guard_investigate"
	EventGuardWaiting     EventType = "guard_waiting"
	EventCameraSpotted    EventType = "camera_spotted"
	EventAlarmRinging     EventType = "alarm_ringing"
	EventAlarmSilenced    EventType = "alarm_silenced"
	EventAlarmSummoned    EventType = "alarm_summoned"
	EventDeviceCommand    EventType = "device_command"
	EventLevelComplete    EventType = "level_complete"
)

// Event is something that happened during a tick. Data carries the
// producer's own event value.
type Event struct {
	Type EventType
	Tick uint64
	Time float64
	Data any
}

// Source names the guard, camera or device that raised the event, or "" when
// the payload does not say.
func (e Event) Source() string {
	if src, ok := e.Data.(interface{ Source() string }); ok {
		return src.Source()
	}
	return ""
}

// EventQueue is a FIFO of events raised during the current tick.
type EventQueue struct {
	items []Event
}

func (q *EventQueue) Push(evt Event) {
	q.items = append(q.items, evt)
}

// Pending returns the queued events without clearing them.
func (q *EventQueue) Pending() []Event {
	return q.items
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}
