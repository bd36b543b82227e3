package guard

import (
	"sort"

	"github.com/milk9111/stealth/common"
)

// Key is one point of a response curve.
type Key struct {
	Time  float64
	Value float64
}

// Curve maps [0,1] onto a response through piecewise-linear keys. Inputs
// outside the keyed range hold the end values. A curve with no keys is the
// identity.
type Curve struct {
	Keys []Key
}

func LinearCurve() Curve {
	return Curve{Keys: []Key{{Time: 0, Value: 0}, {Time: 1, Value: 1}}}
}

func (c Curve) Evaluate(t float64) float64 {
	switch len(c.Keys) {
	case 0:
		return t
	case 1:
		return c.Keys[0].Value
	}

	keys := c.Keys
	if !sort.SliceIsSorted(keys, func(i, j int) bool { return keys[i].Time < keys[j].Time }) {
		keys = append([]Key(nil), keys...)
		sort.Slice(keys, func(i, j int) bool { return keys[i].Time < keys[j].Time })
	}

	if t <= keys[0].Time {
		return keys[0].Value
	}
	last := keys[len(keys)-1]
	if t >= last.Time {
		return last.Value
	}
	for i := 1; i < len(keys); i++ {
		a, b := keys[i-1], keys[i]
		if t > b.Time {
			continue
		}
		span := b.Time - a.Time
		if span <= 0 {
			return b.Value
		}
		return common.Lerp(a.Value, b.Value, (t-a.Time)/span)
	}
	return last.Value
}
