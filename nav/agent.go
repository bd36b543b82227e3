package nav

import (
	"math"

	"github.com/milk9111/stealth/common"
)

// Agent is the navigation service a guard steers through.
type Agent interface {
	// SetDestination plans a route to p. A rejected destination leaves the
	// current route untouched.
	SetDestination(p common.Vec3) bool
	// CalculatePath plans a route without following it.
	CalculatePath(p common.Vec3) ([]common.Vec3, bool)
	RemainingDistance() float64
	StoppingDistance() float64
	HasPath() bool
	Velocity() common.Vec3
	Speed() float64
	SetSpeed(speed float64)
	Transform() common.Transform
}

// PathLength sums the legs start -> corners... -> end.
func PathLength(start common.Vec3, corners []common.Vec3, end common.Vec3) float64 {
	total := 0.0
	prev := start
	for _, c := range corners {
		total += common.Distance(prev, c)
		prev = c
	}
	return total + common.Distance(prev, end)
}

// TravelDistance is the walking distance from the agent to p, or +Inf when
// p is unreachable.
func TravelDistance(a Agent, p common.Vec3) float64 {
	if a == nil {
		return math.Inf(1)
	}
	corners, ok := a.CalculatePath(p)
	if !ok {
		return math.Inf(1)
	}
	return PathLength(a.Transform().Position, corners, p)
}

// GridAgent walks grid paths at a fixed speed and faces its direction of
// travel.
type GridAgent struct {
	grid     *Grid
	position common.Vec3
	heading  float64
	speed    float64
	stopping float64

	corners     []common.Vec3
	next        int
	destination common.Vec3
	velocity    common.Vec3
}

func NewGridAgent(grid *Grid, position common.Vec3, heading, speed, stoppingDistance float64) *GridAgent {
	return &GridAgent{
		grid:        grid,
		position:    position,
		destination: position,
		heading:     heading,
		speed:       speed,
		stopping:    stoppingDistance,
	}
}

func (a *GridAgent) SetDestination(p common.Vec3) bool {
	corners, ok := a.CalculatePath(p)
	if !ok {
		return false
	}
	a.corners = corners
	a.next = 1
	a.destination = p
	if a.RemainingDistance() <= a.stopping {
		a.clearPath()
	}
	return true
}

func (a *GridAgent) CalculatePath(p common.Vec3) ([]common.Vec3, bool) {
	if a.grid == nil {
		return nil, false
	}
	return a.grid.FindPath(a.position, p)
}

// RemainingDistance is measured along the route. Without a route it is the
// straight distance to the last destination.
func (a *GridAgent) RemainingDistance() float64 {
	if !a.HasPath() {
		return common.Distance(common.Flat(a.position), common.Flat(a.destination))
	}
	return PathLength(a.position, a.corners[a.next:len(a.corners)-1], a.corners[len(a.corners)-1])
}

func (a *GridAgent) StoppingDistance() float64 { return a.stopping }
func (a *GridAgent) HasPath() bool             { return a.next > 0 && a.next < len(a.corners) }
func (a *GridAgent) Velocity() common.Vec3     { return a.velocity }
func (a *GridAgent) Speed() float64            { return a.speed }
func (a *GridAgent) SetSpeed(speed float64)    { a.speed = speed }
func (a *GridAgent) Destination() common.Vec3  { return a.destination }
func (a *GridAgent) Position() common.Vec3     { return a.position }
func (a *GridAgent) Heading() float64          { return a.heading }
func (a *GridAgent) Corners() []common.Vec3    { return a.corners }
func (a *GridAgent) Transform() common.Transform {
	return common.Transform{Position: a.position, Euler: common.Vec3{0, a.heading, 0}}
}

// Warp places the agent without walking and drops its route.
func (a *GridAgent) Warp(p common.Vec3) {
	a.position = p
	a.destination = p
	a.clearPath()
}

// Step advances along the route by speed*dt.
func (a *GridAgent) Step(dt float64) {
	if !a.HasPath() || dt <= 0 {
		a.velocity = common.Vec3{}
		return
	}

	start := a.position
	budget := a.speed * dt
	for budget > 0 && a.HasPath() {
		target := a.corners[a.next]
		leg := common.Flat(target.Sub(a.position))
		dist := leg.Len()
		if dist <= budget {
			a.position = common.Vec3{target[0], a.position[1], target[2]}
			budget -= dist
			a.next++
			continue
		}
		a.position = a.position.Add(leg.Mul(budget / dist))
		budget = 0
	}

	moved := a.position.Sub(start)
	if moved.Len() > 0 {
		a.heading = common.YawTo(start, a.position)
	}
	a.velocity = moved.Mul(1 / dt)

	if !a.HasPath() || a.RemainingDistance() <= a.stopping {
		a.clearPath()
		a.velocity = common.Vec3{}
	}
}

func (a *GridAgent) clearPath() {
	a.corners = nil
	a.next = 0
}
