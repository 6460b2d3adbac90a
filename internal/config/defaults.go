package config

import (
	"os"

	"github.com/gyaneshwarpardhi/funnelsim/internal/funnel"
)

// ApplyDefaults fills unset fields in place.
func ApplyDefaults(cfg *Config) {
	if cfg.Version == "" {
		cfg.Version = "v1"
	}
	if cfg.Engine.Workers == 0 {
		cfg.Engine.Workers = 8
	}
	if cfg.Engine.QueueDepth == 0 {
		cfg.Engine.QueueDepth = 1000
	}
	if cfg.Engine.TimeoutMs == 0 {
		cfg.Engine.TimeoutMs = 2000
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = BackendMemory
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Store.RedisAddr = addr
	}
	if cfg.Store.KeyPrefix == "" {
		cfg.Store.KeyPrefix = "funnelsim"
	}
	if len(cfg.Blueprints) == 0 {
		cfg.Blueprints = DefaultBlueprints()
	}
}

// Default returns a Config with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// DefaultBlueprints returns the built-in restaurant funnels.
func DefaultBlueprints() []funnel.Blueprint {
	return []funnel.Blueprint{
		{
			ID:          "restaurant-basic",
			Name:        "Restaurant Basic Funnel",
			Description: "A basic funnel template for restaurant marketing",
			Components: []funnel.Node{
				{ID: "google-ads-1", Type: "google-ads", Name: "Google Ads Campaign",
					Position:   &funnel.Position{X: 50, Y: 50},
					Properties: map[string]interface{}{"cpc": 2.0, "budget": 4000.0}},
				{ID: "landing-page-1", Type: "landing-page", Name: "Landing Page",
					Position:   &funnel.Position{X: 250, Y: 50},
					Properties: map[string]interface{}{"conversionRate": 0.15}},
				{ID: "booking-form-1", Type: "booking-form", Name: "Booking Form",
					Position:   &funnel.Position{X: 450, Y: 50},
					Properties: map[string]interface{}{"conversionRate": 0.25}},
			},
			Connections: []funnel.Edge{
				{ID: "c1", SourceID: "google-ads-1", TargetID: "landing-page-1"},
				{ID: "c2", SourceID: "landing-page-1", TargetID: "booking-form-1"},
			},
			Params: funnel.Params{MonthlyBudget: 10000, AverageCheckSize: 50, CustomerLifetimeVisits: 5, ProfitMargin: 0.3},
		},
		{
			ID:          "restaurant-advanced",
			Name:        "Restaurant Advanced Funnel",
			Description: "An advanced multi-channel funnel for restaurants",
			Components: []funnel.Node{
				{ID: "google-ads-1", Type: "google-ads", Name: "Google Ads",
					Position:   &funnel.Position{X: 50, Y: 50},
					Properties: map[string]interface{}{"cpc": 2.0, "budget": 4000.0}},
				{ID: "facebook-ads-1", Type: "facebook-ads", Name: "Facebook Ads",
					Position:   &funnel.Position{X: 50, Y: 150},
					Properties: map[string]interface{}{"cpc": 1.5, "budget": 3000.0}},
				{ID: "email-campaign-1", Type: "email-campaign", Name: "Email Campaign",
					Position:   &funnel.Position{X: 50, Y: 250},
					Properties: map[string]interface{}{"recipients": 1000.0, "clickThroughRate": 0.05, "cost": 100.0}},
				{ID: "landing-page-1", Type: "landing-page", Name: "Landing Page",
					Position:   &funnel.Position{X: 300, Y: 150},
					Properties: map[string]interface{}{"conversionRate": 0.2}},
				{ID: "booking-form-1", Type: "booking-form", Name: "Booking Form",
					Position:   &funnel.Position{X: 550, Y: 150},
					Properties: map[string]interface{}{"conversionRate": 0.3}},
			},
			Connections: []funnel.Edge{
				{ID: "c1", SourceID: "google-ads-1", TargetID: "landing-page-1"},
				{ID: "c2", SourceID: "facebook-ads-1", TargetID: "landing-page-1"},
				{ID: "c3", SourceID: "email-campaign-1", TargetID: "landing-page-1"},
				{ID: "c4", SourceID: "landing-page-1", TargetID: "booking-form-1"},
			},
			Params: funnel.Params{MonthlyBudget: 15000, AverageCheckSize: 60, CustomerLifetimeVisits: 6, ProfitMargin: 0.35},
		},
	}
}
