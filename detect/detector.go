package detect

import (
	"github.com/milk9111/stealth/common"
	"github.com/rs/zerolog"
)

const (
	// DefaultHalfWidth is the lateral spacing between fan samples.
	DefaultHalfWidth = 0.4
	fanReach         = 2
)

// DefaultCentreOffset lifts the player's root to chest height.
var DefaultCentreOffset = common.Vec3{0, 2, 0}

// Target is something the detector can look for.
type Target interface {
	ID() string
	Position() common.Vec3
}

// Locator finds the player in the running level.
type Locator interface {
	LocatePlayer() (Target, bool)
}

// Hit is the first collider struck by a ray. Root names the object the
// collider belongs to.
type Hit struct {
	Point    common.Vec3
	Distance float64
	Root     string
}

// Raycaster casts a ray and reports the first thing it hits.
type Raycaster interface {
	Raycast(origin, direction common.Vec3, maxDistance float64) (Hit, bool)
}

// AlertSink is told when a detector sees the player.
type AlertSink interface {
	PlayerWasDetected()
}

// PlayerDetector runs the field-of-view test. It keeps no detection history;
// owners latch on the first positive result.
type PlayerDetector struct {
	CentreOffset common.Vec3
	HalfWidth    float64

	locator Locator
	rays    Raycaster
	sink    AlertSink
	log     zerolog.Logger

	target        Target
	missingLogged bool
	lastHit       Hit
	hasHit        bool
}

func NewPlayerDetector(locator Locator, rays Raycaster, sink AlertSink, logger zerolog.Logger) *PlayerDetector {
	return &PlayerDetector{
		CentreOffset: DefaultCentreOffset,
		HalfWidth:    DefaultHalfWidth,
		locator:      locator,
		rays:         rays,
		sink:         sink,
		log:          logger,
	}
}

// DetectPlayer reports whether the player is visible from detector. offset
// is added to the detector position; angle is the full cone in degrees.
func (d *PlayerDetector) DetectPlayer(detector common.Transform, offset common.Vec3, viewRange, angle float64, name string) (Target, bool) {
	if d == nil {
		return nil, false
	}

	target, ok := d.resolve(name)
	if !ok {
		return nil, false
	}
	if d.rays == nil {
		d.log.Error().Str("detector", name).Msg("no raycaster")
		return nil, false
	}

	origin := detector.Position.Add(offset)
	centre := target.Position().Add(d.CentreOffset)
	direction := centre.Sub(origin)
	left := common.SafeNormalize(direction.Cross(common.Up))
	forward := detector.Forward()
	half := angle / 2

	if common.Angle(forward, direction) > half {
		return nil, false
	}

	for i := -fanReach; i <= fanReach; i++ {
		sample := centre.Add(left.Mul(d.HalfWidth * float64(i)))
		toSample := sample.Sub(origin)
		if common.Angle(forward, toSample) > half {
			continue
		}

		hit, ok := d.rays.Raycast(origin, toSample, viewRange)
		if !ok || hit.Root != target.ID() {
			continue
		}

		d.lastHit = hit
		d.hasHit = true
		d.log.Debug().Str("detector", name).Int("sample", i).Float64("distance", hit.Distance).Msg("player spotted")
		if d.sink != nil {
			d.sink.PlayerWasDetected()
		}
		return target, true
	}

	return nil, false
}

// LastHit returns the ray hit behind the most recent positive detection.
func (d *PlayerDetector) LastHit() (Hit, bool) {
	return d.lastHit, d.hasHit
}

// FanSamples returns the five sample points across the player's width as
// seen from origin. Used by debug drawing.
func (d *PlayerDetector) FanSamples(origin common.Vec3) []common.Vec3 {
	if d == nil || d.target == nil {
		return nil
	}
	centre := d.target.Position().Add(d.CentreOffset)
	left := common.SafeNormalize(centre.Sub(origin).Cross(common.Up))
	out := make([]common.Vec3, 0, 2*fanReach+1)
	for i := -fanReach; i <= fanReach; i++ {
		out = append(out, centre.Add(left.Mul(d.HalfWidth*float64(i))))
	}
	return out
}

func (d *PlayerDetector) resolve(name string) (Target, bool) {
	if d.target != nil {
		return d.target, true
	}
	if d.locator != nil {
		if t, ok := d.locator.LocatePlayer(); ok && t != nil {
			d.target = t
			d.missingLogged = false
			return t, true
		}
	}
	if !d.missingLogged {
		d.log.Error().Str("detector", name).Msg("player not found in level")
		d.missingLogged = true
	}
	return nil, false
}
