package component

import "github.com/milk9111/stealth/common"

// Player is the infiltrator. It follows Route unless Input is non-zero, in
// which case Input is a ground-plane direction to walk in.
type Player struct {
	Name    string
	Pos     common.Vec3
	Heading float64
	Speed   float64
	Radius  float64

	Route     []common.Vec3
	LoopRoute bool
	NextPoint int

	Input  common.Vec3
	Frozen bool
}

func (p *Player) ID() string            { return p.Name }
func (p *Player) Position() common.Vec3 { return p.Pos }

var PlayerComponent = NewComponent[Player]("player")
