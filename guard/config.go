package guard

import "github.com/milk9111/stealth/common"

const (
	DefaultAlertMultiplier = 2.0
	DefaultViewAngle       = 130.0
	DefaultHeadRange       = 130.0
	minLookSpeed           = 0.1
)

// DefaultDetectorOffset puts the guard's eyes above its feet.
var DefaultDetectorOffset = common.Vec3{0, 3, 0}

type Config struct {
	Name  string
	State State

	// AlertMultiplier scales the agent's base speed for pursuit and
	// investigation.
	AlertMultiplier float64

	MinWait   float64
	MaxWait   float64
	WaitCurve Curve

	ViewRange      float64
	ViewAngle      float64
	DetectorOffset common.Vec3

	HeadRange    float64
	MinLookSpeed float64
	MaxLookSpeed float64
}

func DefaultConfig() Config {
	return Config{
		State:           StateLoopingPatrol,
		AlertMultiplier: DefaultAlertMultiplier,
		MinWait:         1,
		MaxWait:         3,
		WaitCurve:       LinearCurve(),
		ViewRange:       15,
		ViewAngle:       DefaultViewAngle,
		DetectorOffset:  DefaultDetectorOffset,
		HeadRange:       DefaultHeadRange,
		MinLookSpeed:    1,
		MaxLookSpeed:    2,
	}
}

func (c Config) normalized() Config {
	if c.AlertMultiplier <= 0 {
		c.AlertMultiplier = DefaultAlertMultiplier
	}
	if c.MinWait < 0 {
		c.MinWait = 0
	}
	if c.MaxWait < 0 {
		c.MaxWait = 0
	}
	if c.MinWait > c.MaxWait {
		c.MinWait, c.MaxWait = c.MaxWait, c.MinWait
	}
	if c.MinLookSpeed < minLookSpeed {
		c.MinLookSpeed = minLookSpeed
	}
	if c.MaxLookSpeed < c.MinLookSpeed {
		c.MaxLookSpeed = c.MinLookSpeed
	}
	return c
}
