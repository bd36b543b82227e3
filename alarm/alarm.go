package alarm

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/milk9111/stealth/common"
	"github.com/rs/zerolog"
)

const minDelay = 0.1

// Responder is a guard the alarm can summon.
type Responder interface {
	ID() string
	Position() common.Vec3
	TravelDistanceToPoint(p common.Vec3) float64
	Investigate(p common.Vec3) bool
}

type EventKind string

const (
	EventRinging  EventKind = "ringing"
	EventSilenced EventKind = "silenced"
	EventSummoned EventKind = "summoned"
)

type Event struct {
	Kind      EventKind
	Alarm     string
	Responder string
	Position  common.Vec3
}

func (e Event) Source() string { return e.Alarm }

type Config struct {
	Name     string
	Position common.Vec3
	// TurnOffPoint is where a summoned guard walks to. Nil means the alarm
	// itself.
	TurnOffPoint *common.Vec3
	// Zone is the ground-plane box a guard must enter to switch the alarm
	// off, as half extents around the alarm.
	Zone            common.Vec3
	GuardAlertDelay float64
	TurnOffDelay    float64
}

func DefaultConfig() Config {
	return Config{
		Zone:            common.Vec3{1.5, 0, 1.5},
		GuardAlertDelay: 1,
		TurnOffDelay:    0.5,
	}
}

// Alarm summons the nearest guard when it starts ringing and silences
// itself once a guard reaches it.
type Alarm struct {
	Name string

	cfg        Config
	responders []Responder
	log        zerolog.Logger
	onEvent    func(Event)

	ringing      bool
	summonTimer  float64
	summonDue    bool
	turnOffTimer float64
	turningOff   bool
}

func New(cfg Config, logger zerolog.Logger, onEvent func(Event)) *Alarm {
	cfg.GuardAlertDelay = math.Max(cfg.GuardAlertDelay, minDelay)
	cfg.TurnOffDelay = math.Max(cfg.TurnOffDelay, minDelay)
	return &Alarm{
		Name:    cfg.Name,
		cfg:     cfg,
		log:     logger.With().Str("alarm", cfg.Name).Logger(),
		onEvent: onEvent,
	}
}

func (a *Alarm) SetResponders(rs []Responder) {
	a.responders = rs
}

// SetDeviceState rings or silences the alarm from a console command.
func (a *Alarm) SetDeviceState(info string) bool {
	switch {
	case strings.Contains(info, "Ringing"):
		a.Trigger()
	case strings.Contains(info, "Silenced"):
		a.Silence()
	default:
		return false
	}
	return true
}

func (a *Alarm) Trigger() {
	if a.ringing {
		return
	}
	a.ringing = true
	a.summonDue = true
	a.summonTimer = 0
	a.turningOff = false
	a.log.Info().Msg("alarm ringing")
	a.emit(EventRinging, "", a.cfg.Position)
}

func (a *Alarm) Silence() {
	if !a.ringing {
		return
	}
	a.ringing = false
	a.summonDue = false
	a.turningOff = false
	a.log.Info().Msg("alarm silenced")
	a.emit(EventSilenced, "", a.cfg.Position)
}

func (a *Alarm) Ringing() bool { return a.ringing }

func (a *Alarm) Config() Config { return a.cfg }

// Destination is where summoned guards are sent.
func (a *Alarm) Destination() common.Vec3 {
	if a.cfg.TurnOffPoint != nil {
		return *a.cfg.TurnOffPoint
	}
	return a.cfg.Position
}

func (a *Alarm) Tick(dt float64) {
	if !a.ringing {
		return
	}

	if a.summonDue {
		a.summonTimer += dt
		if a.summonTimer >= a.cfg.GuardAlertDelay {
			a.summonDue = false
			a.summonClosest()
		}
	}

	if a.turningOff {
		a.turnOffTimer += dt
		if a.turnOffTimer >= a.cfg.TurnOffDelay {
			a.Silence()
		}
		return
	}
	if a.guardInZone() {
		a.turningOff = true
		a.turnOffTimer = 0
	}
}

func (a *Alarm) summonClosest() {
	if len(a.responders) == 0 {
		a.log.Warn().Msg("no guards to alert")
		return
	}
	if a.cfg.TurnOffPoint == nil {
		a.log.Warn().Msg("no turn off point, sending guards to the alarm")
	}

	dest := a.Destination()
	type candidate struct {
		r Responder
		d float64
	}
	var candidates []candidate
	for _, r := range a.responders {
		d := r.TravelDistanceToPoint(dest)
		a.log.Debug().Str("guard", r.ID()).Float64("distance", d).Msg("guard distance")
		if math.IsInf(d, 1) {
			continue
		}
		candidates = append(candidates, candidate{r: r, d: d})
	}
	if len(candidates) == 0 {
		a.log.Warn().Msg("no guard can reach the alarm")
		return
	}

	// Ties go to the later guard.
	slices.Reverse(candidates)
	slices.SortStableFunc(candidates, func(x, y candidate) int { return cmp.Compare(x.d, y.d) })
	for _, c := range candidates {
		if c.r.Investigate(dest) {
			a.emit(EventSummoned, c.r.ID(), dest)
			return
		}
		a.log.Debug().Str("guard", c.r.ID()).Msg("guard declined alarm")
	}
	a.log.Warn().Msg("no guard answered the alarm")
}

// InZone reports whether p lies in the alarm's switch-off box.
func (a *Alarm) InZone(p common.Vec3) bool {
	d := p.Sub(a.cfg.Position)
	return math.Abs(d[0]) <= a.cfg.Zone[0] && math.Abs(d[2]) <= a.cfg.Zone[2]
}

func (a *Alarm) guardInZone() bool {
	for _, r := range a.responders {
		if a.InZone(r.Position()) {
			return true
		}
	}
	return false
}

func (a *Alarm) emit(kind EventKind, responder string, p common.Vec3) {
	if a.onEvent != nil {
		a.onEvent(Event{Kind: kind, Alarm: a.Name, Responder: responder, Position: p})
	}
}
