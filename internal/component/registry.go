package component

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gyaneshwarpardhi/funnelsim/internal/funnel"
)

// Registry maps component type strings to their decoders.
// It is safe for concurrent reads; Register should only be called at startup.
type Registry struct {
	mu       sync.RWMutex
	decoders map[string]Decoder
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{decoders: make(map[string]Decoder)}
}

// Default returns a Registry with the built-in funnel components.
func Default() *Registry {
	r := NewRegistry()
	r.Register(TypeGoogleAds, paidTraffic(0.4, 2.0))
	r.Register(TypeFacebookAds, paidTraffic(0.3, 1.5))
	r.Register(TypeEmailCampaign, emailBlast)
	r.Register(TypeLandingPage, conversion(0.15))
	r.Register(TypeBookingForm, conversion(0.25))
	return r
}

// Register adds a decoder. Panics on duplicate type to surface misconfiguration early.
func (r *Registry) Register(typ string, d Decoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.decoders[typ]; exists {
		panic(fmt.Sprintf("component registry: duplicate type %q", typ))
	}
	r.decoders[typ] = d
}

// Decode returns the typed component for n. Unknown types decode to Generic.
func (r *Registry) Decode(n funnel.Node, params funnel.Params) Component {
	r.mu.RLock()
	d, ok := r.decoders[n.Type]
	r.mu.RUnlock()
	if !ok {
		return decodeGeneric(n.Type, n.Properties)
	}
	return d(n.Properties, params)
}

// Known reports whether typ has a registered decoder.
func (r *Registry) Known(typ string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.decoders[typ]
	return ok
}

// Types returns all registered type strings, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.decoders))
	for k := range r.decoders {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func paidTraffic(budgetShare, defaultCPC float64) Decoder {
	return func(props map[string]interface{}, params funnel.Params) Component {
		return PaidTraffic{
			Budget: funnel.NonNegative(props, params.MonthlyBudget*budgetShare, "budget"),
			CPC:    funnel.NonNegative(props, defaultCPC, "cpc", "costPerClick"),
		}
	}
}

func emailBlast(props map[string]interface{}, _ funnel.Params) Component {
	return EmailBlast{
		Recipients:       funnel.NonNegative(props, 1000, "recipients"),
		ClickThroughRate: funnel.Rate(props, 0.05, "clickThroughRate"),
		FlatCost:         funnel.NonNegative(props, 100, "cost"),
	}
}

func conversion(defaultRate float64) Decoder {
	return func(props map[string]interface{}, _ funnel.Params) Component {
		return Conversion{Rate: funnel.Rate(props, defaultRate, "conversionRate")}
	}
}

func decodeGeneric(typ string, props map[string]interface{}) Component {
	g := Generic{
		Type:       typ,
		Properties: props,
		FlatCost:   funnel.NonNegative(props, 0, "cost"),
	}
	if f, ok := funnel.Lookup(props, "conversionRate"); ok {
		rate := funnel.Clamp01(f)
		g.Rate = &rate
	}
	return g
}
