package component

import (
	"github.com/gyaneshwarpardhi/funnelsim/internal/funnel"
)

// Role discriminates how a component transforms flow.
type Role string

const (
	RoleTraffic    Role = "traffic"
	RoleConversion Role = "conversion"
	RoleGeneric    Role = "generic"
)

// Built-in component type strings.
const (
	TypeGoogleAds     = "google-ads"
	TypeFacebookAds   = "facebook-ads"
	TypeEmailCampaign = "email-campaign"
	TypeLandingPage   = "landing-page"
	TypeBookingForm   = "booking-form"
)

// Component is the decoded, typed view of a node's property bag.
type Component interface {
	Role() Role
	// Units is the raw visitor output of a traffic source. Zero for other roles.
	Units() float64
	// Cost is the spend this component adds to the evaluation.
	Cost() float64
	// Transfer maps inbound flow to outbound flow.
	Transfer(inbound float64) float64
}

// -----------------------------------------------------------------------
// PaidTraffic
// -----------------------------------------------------------------------

// PaidTraffic buys clicks: units = budget / cpc.
type PaidTraffic struct {
	Budget float64
	CPC    float64
}

func (c PaidTraffic) Role() Role { return RoleTraffic }

func (c PaidTraffic) Units() float64 {
	if c.CPC <= 0 {
		return 0
	}
	return c.Budget / c.CPC
}

func (c PaidTraffic) Cost() float64 { return c.Budget }

// Transfer adds any inbound flow to the purchased clicks.
func (c PaidTraffic) Transfer(inbound float64) float64 { return c.Units() + inbound }

// -----------------------------------------------------------------------
// EmailBlast
// -----------------------------------------------------------------------

// EmailBlast sends to a list: units = recipients × clickThroughRate.
type EmailBlast struct {
	Recipients       float64
	ClickThroughRate float64
	FlatCost         float64
}

func (c EmailBlast) Role() Role                       { return RoleTraffic }
func (c EmailBlast) Units() float64                   { return c.Recipients * c.ClickThroughRate }
func (c EmailBlast) Cost() float64                    { return c.FlatCost }
func (c EmailBlast) Transfer(inbound float64) float64 { return c.Units() + inbound }

// -----------------------------------------------------------------------
// Conversion
// -----------------------------------------------------------------------

// Conversion keeps a fraction of inbound visitors.
type Conversion struct {
	Rate float64 // clamped to [0,1]
}

func (c Conversion) Role() Role                       { return RoleConversion }
func (c Conversion) Units() float64                   { return 0 }
func (c Conversion) Cost() float64                    { return 0 }
func (c Conversion) Transfer(inbound float64) float64 { return inbound * c.Rate }

// -----------------------------------------------------------------------
// Generic
// -----------------------------------------------------------------------

// Generic is an unrecognized type. It converts when it carries a
// conversionRate and passes flow through unchanged otherwise.
type Generic struct {
	Type       string
	Properties map[string]interface{}
	Rate       *float64
	FlatCost   float64
}

func (c Generic) Role() Role {
	if c.Rate != nil {
		return RoleConversion
	}
	return RoleGeneric
}

func (c Generic) Units() float64 { return 0 }
func (c Generic) Cost() float64  { return c.FlatCost }

func (c Generic) Transfer(inbound float64) float64 {
	if c.Rate != nil {
		return inbound * *c.Rate
	}
	return inbound
}

// Decoder turns a property bag into a Component. params supplies the
// budget fallbacks derived from the monthly budget.
type Decoder func(props map[string]interface{}, params funnel.Params) Component
