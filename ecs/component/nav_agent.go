package component

import "github.com/milk9111/stealth/nav"

// NavAgentComponent holds the agent a guard steers. The navigation system
// advances it every tick.
var NavAgentComponent = NewComponent[nav.GridAgent]("nav_agent")
