package funnel

import "time"

// Node is one funnel stage placed on the canvas.
type Node struct {
	ID         string                 `json:"id" yaml:"id" toml:"id" validate:"required"`
	Type       string                 `json:"type" yaml:"type" toml:"type" validate:"required"`
	Name       string                 `json:"name,omitempty" yaml:"name,omitempty" toml:"name"`
	Position   *Position              `json:"position,omitempty" yaml:"position,omitempty" toml:"position"`
	Properties map[string]interface{} `json:"properties" yaml:"properties" toml:"properties" validate:"properties"`
}

// Position is the canvas location. The engine never reads it.
type Position struct {
	X float64 `json:"x" yaml:"x" toml:"x"`
	Y float64 `json:"y" yaml:"y" toml:"y"`
}

// Edge is a directed connection SourceID → TargetID.
type Edge struct {
	ID       string `json:"id,omitempty" yaml:"id,omitempty" toml:"id"`
	SourceID string `json:"sourceId" yaml:"source_id" toml:"source_id" validate:"required"`
	TargetID string `json:"targetId" yaml:"target_id" toml:"target_id" validate:"required,nefield=SourceID"`
}

// Params are the global business parameters of one simulation.
type Params struct {
	MonthlyBudget          float64 `json:"monthlyBudget" yaml:"monthly_budget" toml:"monthly_budget" validate:"gte=0"`
	AverageCheckSize       float64 `json:"averageCheckSize" yaml:"average_check_size" toml:"average_check_size" validate:"gte=0"`
	CustomerLifetimeVisits float64 `json:"customerLifetimeVisits" yaml:"customer_lifetime_visits" toml:"customer_lifetime_visits" validate:"gte=0"`
	ProfitMargin           float64 `json:"profitMargin" yaml:"profit_margin" toml:"profit_margin" validate:"gte=0,lte=1"`
}

// Valid reports whether every parameter is non-negative.
func (p Params) Valid() bool {
	return p.MonthlyBudget >= 0 && p.AverageCheckSize >= 0 &&
		p.CustomerLifetimeVisits >= 0 && p.ProfitMargin >= 0
}

// Metrics is the six-field snapshot produced by one evaluation.
type Metrics struct {
	Visitors       int64   `json:"visitors" yaml:"visitors"`
	Bookings       int64   `json:"bookings" yaml:"bookings"`
	Revenue        int64   `json:"revenue" yaml:"revenue"`
	Profit         int64   `json:"profit" yaml:"profit"`
	ROI            float64 `json:"roi" yaml:"roi"`
	LoyalCustomers int64   `json:"loyalCustomers" yaml:"loyal_customers"`
}

// IsZero reports whether m is the all-zero snapshot.
func (m Metrics) IsZero() bool { return m == Metrics{} }

// Scenario is a saved funnel: nodes, connections and the parameters they were simulated with.
type Scenario struct {
	ID          string    `json:"id" yaml:"id" toml:"id"`
	Name        string    `json:"name" yaml:"name" toml:"name" validate:"required"`
	Description string    `json:"description" yaml:"description" toml:"description"`
	Components  []Node    `json:"components" yaml:"components" toml:"components" validate:"required,min=1,unique=ID,dive"`
	Connections []Edge    `json:"connections" yaml:"connections" toml:"connections" validate:"dive"`
	Params      Params    `json:"globalParameters" yaml:"global_parameters" toml:"global_parameters"`
	CreatedAt   time.Time `json:"createdAt" yaml:"-" toml:"-"`
	UpdatedAt   time.Time `json:"updatedAt" yaml:"-" toml:"-"`
}

// Blueprint is a read-only funnel template served to the editor.
type Blueprint struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Components  []Node `json:"components" yaml:"components"`
	Connections []Edge `json:"connections" yaml:"connections"`
	Params      Params `json:"globalParameters" yaml:"global_parameters"`
}
