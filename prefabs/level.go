package prefabs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoPlayer      = errors.New("prefabs: level has no player")
	ErrBadBounds     = errors.New("prefabs: level bounds are empty")
	ErrDuplicateName = errors.New("prefabs: duplicate name")
	ErrUnknownRoute  = errors.New("prefabs: unknown route")
)

// LevelSpec describes one level. Zero numeric fields fall back to the
// defaults of the package that consumes them.
type LevelSpec struct {
	Name     string     `yaml:"name"`
	Bounds   BoundsSpec `yaml:"bounds"`
	CellSize float64    `yaml:"cell_size"`
	Script   string     `yaml:"script"`

	Walls    []WallSpec   `yaml:"walls"`
	Player   *PlayerSpec  `yaml:"player"`
	EndPoint *EndSpec     `yaml:"end_point"`
	Routes   []RouteSpec  `yaml:"routes"`
	Guards   []GuardSpec  `yaml:"guards"`
	Cameras  []CameraSpec `yaml:"cameras"`
	Alarms   []AlarmSpec  `yaml:"alarms"`
}

type BoundsSpec struct {
	MinX float64 `yaml:"min_x"`
	MinZ float64 `yaml:"min_z"`
	MaxX float64 `yaml:"max_x"`
	MaxZ float64 `yaml:"max_z"`
}

type WallSpec struct {
	Name  string     `yaml:"name"`
	MinX  float64    `yaml:"min_x"`
	MinZ  float64    `yaml:"min_z"`
	MaxX  float64    `yaml:"max_x"`
	MaxZ  float64    `yaml:"max_z"`
	Color *YAMLColor `yaml:"color"`
}

type PlayerSpec struct {
	Name     string     `yaml:"name"`
	Position Vec3Spec   `yaml:"position"`
	Speed    float64    `yaml:"speed"`
	Radius   float64    `yaml:"radius"`
	Route    []Vec3Spec `yaml:"route"`
	Loop     bool       `yaml:"loop"`
}

type EndSpec struct {
	Position Vec3Spec `yaml:"position"`
	HalfX    float64  `yaml:"half_x"`
	HalfZ    float64  `yaml:"half_z"`
}

type RouteSpec struct {
	Name   string     `yaml:"name"`
	Origin Vec3Spec   `yaml:"origin"`
	Points []Vec3Spec `yaml:"points"`
}

type CurveKeySpec struct {
	Time  float64 `yaml:"time"`
	Value float64 `yaml:"value"`
}

type GuardSpec struct {
	Name             string         `yaml:"name"`
	State            string         `yaml:"state"`
	Route            string         `yaml:"route"`
	Position         Vec3Spec       `yaml:"position"`
	Heading          float64        `yaml:"heading"`
	Speed            float64        `yaml:"speed"`
	StoppingDistance float64        `yaml:"stopping_distance"`
	AlertMultiplier  float64        `yaml:"alert_multiplier"`
	MinWait          *float64       `yaml:"min_wait"`
	MaxWait          *float64       `yaml:"max_wait"`
	WaitCurve        []CurveKeySpec `yaml:"wait_curve"`
	ViewRange        float64        `yaml:"view_range"`
	ViewAngle        float64        `yaml:"view_angle"`
	DetectorOffset   *Vec3Spec      `yaml:"detector_offset"`
	HeadRange        float64        `yaml:"head_range"`
	MinLookSpeed     float64        `yaml:"min_look_speed"`
	MaxLookSpeed     float64        `yaml:"max_look_speed"`
	Color            *YAMLColor     `yaml:"color"`
}

type CameraSpec struct {
	Name         string     `yaml:"name"`
	State        string     `yaml:"state"`
	Position     Vec3Spec   `yaml:"position"`
	Left         *Vec3Spec  `yaml:"left"`
	Right        *Vec3Spec  `yaml:"right"`
	SweepSpeed   float64    `yaml:"sweep_speed"`
	ViewRange    float64    `yaml:"view_range"`
	ViewAngle    float64    `yaml:"view_angle"`
	TrackGain    float64    `yaml:"track_gain"`
	MaxTurnSpeed float64    `yaml:"max_turn_speed"`
	Color        *YAMLColor `yaml:"color"`
}

type AlarmSpec struct {
	Name            string    `yaml:"name"`
	Position        Vec3Spec  `yaml:"position"`
	TurnOffPoint    *Vec3Spec `yaml:"turn_off_point"`
	Zone            *Vec3Spec `yaml:"zone"`
	GuardAlertDelay float64   `yaml:"guard_alert_delay"`
	TurnOffDelay    float64   `yaml:"turn_off_delay"`
}

// LoadLevelSpec reads and validates a level file such as "vault.yaml".
func LoadLevelSpec(name string) (LevelSpec, error) {
	if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
		name += ".yaml"
	}
	spec, err := LoadSpec[LevelSpec](name)
	if err != nil {
		return LevelSpec{}, err
	}
	if err := spec.Validate(); err != nil {
		return LevelSpec{}, fmt.Errorf("prefabs: %s: %w", name, err)
	}
	return spec, nil
}

// Validate checks references and names. Device names (cameras and alarms)
// share one namespace, as do guards and routes each.
func (s *LevelSpec) Validate() error {
	if s.Player == nil {
		return ErrNoPlayer
	}
	if s.Bounds.MaxX <= s.Bounds.MinX || s.Bounds.MaxZ <= s.Bounds.MinZ {
		return ErrBadBounds
	}

	routes := make(map[string]bool, len(s.Routes))
	for _, r := range s.Routes {
		if routes[r.Name] {
			return fmt.Errorf("route %q: %w", r.Name, ErrDuplicateName)
		}
		routes[r.Name] = true
	}

	guards := make(map[string]bool, len(s.Guards))
	for _, g := range s.Guards {
		if guards[g.Name] {
			return fmt.Errorf("guard %q: %w", g.Name, ErrDuplicateName)
		}
		guards[g.Name] = true
		if g.Route != "" && !routes[g.Route] {
			return fmt.Errorf("guard %q route %q: %w", g.Name, g.Route, ErrUnknownRoute)
		}
	}

	devices := make(map[string]bool, len(s.Cameras)+len(s.Alarms))
	for _, c := range s.Cameras {
		if devices[c.Name] {
			return fmt.Errorf("device %q: %w", c.Name, ErrDuplicateName)
		}
		devices[c.Name] = true
	}
	for _, a := range s.Alarms {
		if devices[a.Name] {
			return fmt.Errorf("device %q: %w", a.Name, ErrDuplicateName)
		}
		devices[a.Name] = true
	}
	return nil
}
