package waypoint

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/stealth/common"
)

// Waypoint is a single patrol stop. Offset is relative to the owning
// manager's origin; a waypoint outside any manager treats it as absolute.
type Waypoint struct {
	Offset   common.Vec3
	Rotation mgl64.Quat
}

func New(offset common.Vec3) Waypoint {
	return Waypoint{Offset: offset, Rotation: mgl64.QuatIdent()}
}

// Position returns the unmanaged world position, which is the raw offset.
func (w *Waypoint) Position() common.Vec3 {
	if w == nil {
		return common.Vec3{}
	}
	return w.Offset
}

// UpdatePosition moves the waypoint by delta. Repeated calls accumulate.
func (w *Waypoint) UpdatePosition(delta common.Vec3) {
	if w == nil {
		return
	}
	w.Offset = w.Offset.Add(delta)
}

// Copy takes other's offset.
func (w *Waypoint) Copy(other *Waypoint) {
	if w == nil || other == nil {
		return
	}
	w.Offset = other.Offset
}
