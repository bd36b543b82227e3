package component

import (
	"github.com/milk9111/stealth/guard"
	"github.com/milk9111/stealth/waypoint"
)

var GuardComponent = NewComponent[guard.Guard]("guard")

// Route is the waypoint manager a guard patrols.
var RouteComponent = NewComponent[waypoint.Manager]("route")
