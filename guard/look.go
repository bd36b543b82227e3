package guard

import (
	"math"
	"math/rand/v2"

	"github.com/milk9111/stealth/common"
)

// headSweep turns the head through one full side-to-side cycle, then
// recentres and rolls a new speed for next time.
type headSweep struct {
	rangeDeg float64
	minSpeed float64
	maxSpeed float64

	speed  float64
	t      float64
	yaw    float64
	active bool
}

func newHeadSweep(cfg Config, rng *rand.Rand) headSweep {
	h := headSweep{rangeDeg: cfg.HeadRange, minSpeed: cfg.MinLookSpeed, maxSpeed: cfg.MaxLookSpeed}
	h.roll(rng)
	return h
}

func (h *headSweep) start() {
	h.active = true
}

func (h *headSweep) stop() {
	h.active = false
	h.t = 0
	h.yaw = 0
}

func (h *headSweep) update(dt float64, rng *rand.Rand) {
	if !h.active {
		return
	}

	h.t += dt
	phase := h.t * h.speed
	h.yaw = common.Lerp(-h.rangeDeg/2, h.rangeDeg/2, common.SineBlend(phase))

	if phase >= 2*math.Pi {
		h.stop()
		h.roll(rng)
	}
}

func (h *headSweep) roll(rng *rand.Rand) {
	h.speed = h.minSpeed
	if rng != nil {
		h.speed = common.Lerp(h.minSpeed, h.maxSpeed, rng.Float64())
	}
}
