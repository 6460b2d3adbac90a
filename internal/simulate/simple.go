package simulate

import (
	"math"

	"github.com/gyaneshwarpardhi/funnelsim/internal/component"
)

// baselineRate applies when traffic exists but no stage shapes the funnel.
const baselineRate = 0.02

// totals is the running state of the simple-mode fold.
type totals struct {
	visitors  float64
	rate      float64
	cost      float64
	converted bool
}

// add returns the state after folding in c.
func (t totals) add(c component.Component) totals {
	switch c.Role() {
	case component.RoleTraffic:
		t.visitors += c.Units()
	case component.RoleConversion:
		t.rate *= c.Transfer(1)
		t.converted = true
	}
	t.cost += c.Cost()
	return t
}

// bookings rounds visitors × the accumulated conversion rate.
func (t totals) bookings() float64 {
	rate := t.rate
	if !t.converted && t.visitors > 0 {
		rate = baselineRate
	}
	return math.Round(t.visitors * math.Max(0, rate))
}

// fold walks every decoded node once in snapshot order.
func fold(comps []component.Component) totals {
	t := totals{rate: 1}
	for _, c := range comps {
		t = t.add(c)
	}
	return t
}
