package component

import (
	"math"

	"github.com/milk9111/stealth/common"
)

// EndPoint is the level exit: a box on the ground plane centred on Position.
type EndPoint struct {
	Position common.Vec3
	HalfX    float64
	HalfZ    float64
}

func (e *EndPoint) Contains(p common.Vec3) bool {
	return math.Abs(p[0]-e.Position[0]) <= e.HalfX && math.Abs(p[2]-e.Position[2]) <= e.HalfZ
}

var EndPointComponent = NewComponent[EndPoint]("end_point")
