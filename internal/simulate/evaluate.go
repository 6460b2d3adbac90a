package simulate

import (
	"log/slog"
	"math"

	"github.com/gyaneshwarpardhi/funnelsim/internal/component"
	"github.com/gyaneshwarpardhi/funnelsim/internal/dag"
	"github.com/gyaneshwarpardhi/funnelsim/internal/funnel"
)

// Mode names the strategy an evaluation took.
type Mode string

const (
	ModeSimple  Mode = "simple"
	ModeGraph   Mode = "graph"
	ModeInvalid Mode = "invalid"
	ModeCycle   Mode = "cycle"
)

// Report is the full outcome of one evaluation.
type Report struct {
	Metrics   funnel.Metrics `json:"metrics"`
	Mode      Mode           `json:"mode"`
	Cycle     []string       `json:"cycle,omitempty"`
	TotalCost float64        `json:"totalCost"`
	Flow      dag.Flow       `json:"flow,omitempty"`
	Budget    BudgetStats    `json:"budget"`
}

// Evaluator computes reports. The zero value is not usable; call New.
type Evaluator struct {
	registry *component.Registry
	logger   *slog.Logger
	onCycle  func(cycle []string)
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithRegistry sets the component registry used to decode nodes.
func WithRegistry(r *component.Registry) Option {
	return func(e *Evaluator) { e.registry = r }
}

// WithLogger sets the logger that receives cycle warnings.
func WithLogger(l *slog.Logger) Option {
	return func(e *Evaluator) { e.logger = l }
}

// WithCycleHook registers fn to be called once per evaluation that finds a cycle.
func WithCycleHook(fn func(cycle []string)) Option {
	return func(e *Evaluator) { e.onCycle = fn }
}

// New creates an Evaluator with the built-in component registry.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{registry: component.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEvaluator = New()

// Evaluate computes the metrics snapshot with the default evaluator.
func Evaluate(nodes []funnel.Node, params funnel.Params, edges ...funnel.Edge) funnel.Metrics {
	return defaultEvaluator.Evaluate(nodes, params, edges)
}

// Evaluate computes the metrics snapshot for one funnel.
func (e *Evaluator) Evaluate(nodes []funnel.Node, params funnel.Params, edges []funnel.Edge) funnel.Metrics {
	return e.Run(nodes, params, edges).Metrics
}

// Run evaluates one funnel and returns the metrics with their diagnostics.
func (e *Evaluator) Run(nodes []funnel.Node, params funnel.Params, edges []funnel.Edge) Report {
	if !params.Valid() {
		return Report{Mode: ModeInvalid}
	}

	// Simple mode folds every node; graph mode keys by id, first node wins.
	decoded := make([]component.Component, len(nodes))
	comps := make(map[string]component.Component, len(nodes))
	for i, n := range nodes {
		decoded[i] = e.registry.Decode(n, params)
		if _, dup := comps[n.ID]; !dup {
			comps[n.ID] = decoded[i]
		}
	}
	budget := budgetStats(nodes, params)

	edges = dag.Prune(nodes, edges)
	if len(edges) == 0 {
		t := fold(decoded)
		return Report{
			Metrics:   finalize(t.visitors, t.bookings(), t.cost, params),
			Mode:      ModeSimple,
			TotalCost: finite(t.cost),
			Budget:    budget,
		}
	}

	g := dag.Build(nodes, edges)
	e.log().Debug("funnel graph built", "nodes", g.NodeCount(), "edges", g.EdgeCount())
	if cycle := dag.FindCycle(g.Forward, g.IDs()); cycle != nil {
		e.reportCycle(cycle)
		return Report{Mode: ModeCycle, Cycle: cycle, Budget: budget}
	}

	flow := dag.Propagate(g, comps)
	visitors, bookings, cost := aggregateFlow(nodes, comps, flow)
	return Report{
		Metrics:   finalize(visitors, bookings, cost, params),
		Mode:      ModeGraph,
		TotalCost: finite(cost),
		Flow:      flow,
		Budget:    budget,
	}
}

func (e *Evaluator) log() *slog.Logger {
	if e.logger == nil {
		return slog.Default()
	}
	return e.logger
}

func (e *Evaluator) reportCycle(cycle []string) {
	e.log().Warn("funnel contains a cycle; simulation zeroed", "cycle", cycle)
	if e.onCycle != nil {
		e.onCycle(cycle)
	}
}

// aggregateFlow sums visitors over source nodes, bookings over sinks that
// received flow, and spend over every traffic component.
func aggregateFlow(nodes []funnel.Node, comps map[string]component.Component, flow dag.Flow) (visitors, bookings, cost float64) {
	seen := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		if _, dup := seen[n.ID]; dup {
			continue
		}
		seen[n.ID] = struct{}{}

		nf := flow[n.ID]
		if nf.Source {
			visitors += nf.Outbound
		}
		if nf.Sink && nf.Inbound > 0 {
			bookings += nf.Outbound
		}
		if c := comps[n.ID]; c.Role() == component.RoleTraffic {
			cost += c.Cost()
		}
	}
	return visitors, math.Round(bookings), cost
}

const loyaltyRate = 0.30

// finalize applies the global parameters to visitors, bookings and cost.
func finalize(visitors, bookings, cost float64, p funnel.Params) funnel.Metrics {
	bookings = math.Max(0, finite(bookings))
	cost = finite(cost)

	revenue := finite(bookings * math.Max(0, p.AverageCheckSize) * math.Max(0, p.CustomerLifetimeVisits))
	profit := finite(revenue*funnel.Clamp01(p.ProfitMargin) - cost)

	var roi float64
	if cost > 0 {
		roi = finite(math.Round(profit/cost*100*100) / 100)
	}

	return funnel.Metrics{
		Visitors:       toInt(math.Max(0, visitors)),
		Bookings:       toInt(bookings),
		Revenue:        toInt(revenue),
		Profit:         toInt(profit),
		ROI:            roi,
		LoyalCustomers: toInt(bookings * loyaltyRate),
	}
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// toInt rounds f, saturating at the int64 bounds (float64(MaxInt64) is 2^63).
func toInt(f float64) int64 {
	f = math.Round(finite(f))
	switch {
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}
