package camera

import (
	"fmt"
	"strings"

	"github.com/milk9111/stealth/common"
	"github.com/milk9111/stealth/detect"
	"github.com/rs/zerolog"
)

type State int

const (
	StateStatic State = iota
	StateSentryMode
	StateDetected
)

func (s State) String() string {
	switch s {
	case StateStatic:
		return "static"
	case StateSentryMode:
		return "sentry_mode"
	case StateDetected:
		return "detected"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

func ParseState(name string) (State, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_") {
	case "static":
		return StateStatic, nil
	case "sentry_mode", "sentry":
		return StateSentryMode, nil
	case "detected":
		return StateDetected, nil
	}
	return StateStatic, fmt.Errorf("camera: unknown state %q", name)
}

// Detector is the sight test the camera runs every tick.
type Detector interface {
	DetectPlayer(detector common.Transform, offset common.Vec3, viewRange, angle float64, name string) (detect.Target, bool)
}

type Config struct {
	Name     string
	State    State
	Position common.Vec3
	// Left and Right are the sweep extremes as Euler angles in degrees.
	Left  common.Vec3
	Right common.Vec3
	// SweepSpeed is in radians of sweep phase per second.
	SweepSpeed float64

	ViewRange float64
	ViewAngle float64

	// TrackGain turns the camera by this fraction of its error per second,
	// capped at MaxTurnSpeed degrees per second.
	TrackGain    float64
	MaxTurnSpeed float64
}

func DefaultConfig() Config {
	return Config{
		State:        StateSentryMode,
		Left:         common.Vec3{20, -45, 0},
		Right:        common.Vec3{20, 45, 0},
		SweepSpeed:   0.5,
		ViewRange:    12,
		ViewAngle:    60,
		TrackGain:    4,
		MaxTurnSpeed: 90,
	}
}

// SecurityCamera sweeps or holds still until it sees the player, then turns
// to follow the last place it saw them. It never goes back.
type SecurityCamera struct {
	Name string

	cfg      Config
	detector Detector
	log      zerolog.Logger
	onSpot   func(name string, p common.Vec3)

	state     State
	euler     common.Vec3
	sweepTime float64
	lastKnown common.Vec3
}

func New(cfg Config, detector Detector, logger zerolog.Logger, onSpot func(name string, p common.Vec3)) *SecurityCamera {
	state := cfg.State
	if state == StateDetected {
		state = StateSentryMode
	}
	return &SecurityCamera{
		Name:     cfg.Name,
		cfg:      cfg,
		detector: detector,
		log:      logger.With().Str("camera", cfg.Name).Logger(),
		onSpot:   onSpot,
		state:    state,
		euler:    cfg.Left,
	}
}

func (c *SecurityCamera) Tick(dt float64) {
	switch c.state {
	case StateStatic:
	case StateSentryMode:
		c.sweep(dt)
	case StateDetected:
		c.track(dt)
	}

	if c.detector == nil {
		return
	}
	target, ok := c.detector.DetectPlayer(c.Transform(), common.Vec3{}, c.cfg.ViewRange, c.cfg.ViewAngle, c.Name)
	if !ok {
		return
	}
	c.lastKnown = target.Position()
	if c.state != StateDetected {
		c.state = StateDetected
		c.log.Info().Msg("player spotted, tracking")
		if c.onSpot != nil {
			c.onSpot(c.Name, c.lastKnown)
		}
	}
}

// SetDeviceState switches between static and sentry mode from a console
// command. Once the camera has spotted the player it ignores commands.
func (c *SecurityCamera) SetDeviceState(info string) bool {
	if c.state == StateDetected {
		c.log.Debug().Str("info", info).Msg("device state ignored while tracking")
		return false
	}
	lower := strings.ToLower(info)
	switch {
	case strings.Contains(lower, "static"):
		c.state = StateStatic
	case strings.Contains(lower, "sentry mode"):
		c.state = StateSentryMode
	default:
		return false
	}
	return true
}

func (c *SecurityCamera) State() State           { return c.state }
func (c *SecurityCamera) Euler() common.Vec3     { return c.euler }
func (c *SecurityCamera) LastKnown() common.Vec3 { return c.lastKnown }
func (c *SecurityCamera) Config() Config         { return c.cfg }
func (c *SecurityCamera) Transform() common.Transform {
	return common.Transform{Position: c.cfg.Position, Euler: c.euler}
}

func (c *SecurityCamera) sweep(dt float64) {
	c.sweepTime += dt
	c.euler = common.LerpVec3(c.cfg.Left, c.cfg.Right, common.SineBlend(c.sweepTime*c.cfg.SweepSpeed))
}

func (c *SecurityCamera) track(dt float64) {
	aim := c.lastKnown.Add(detect.DefaultCentreOffset)
	c.euler[0] += c.turnStep(c.euler[0], common.PitchTo(c.cfg.Position, aim), dt)
	c.euler[1] += c.turnStep(c.euler[1], common.YawTo(c.cfg.Position, aim), dt)
}

func (c *SecurityCamera) turnStep(current, desired, dt float64) float64 {
	limit := c.cfg.MaxTurnSpeed * dt
	return common.Clamp(common.DeltaAngle(current, desired)*c.cfg.TrackGain*dt, -limit, limit)
}
