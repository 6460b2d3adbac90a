package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gyaneshwarpardhi/funnelsim/internal/funnel"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config validation errors")

// Validate checks the config for:
//   - Engine and store settings in range
//   - Duplicate blueprint ids and duplicate node ids within a blueprint
//   - Connections that loop on one node or point at unknown nodes
//   - Negative or out-of-range global parameters
func Validate(cfg *Config) error {
	var errs []string

	if cfg.Version == "" {
		errs = append(errs, "version is required")
	}
	if cfg.Engine.Workers < 1 {
		errs = append(errs, fmt.Sprintf("engine.workers must be positive, got %d", cfg.Engine.Workers))
	}
	if cfg.Engine.QueueDepth < 1 {
		errs = append(errs, fmt.Sprintf("engine.queue_depth must be positive, got %d", cfg.Engine.QueueDepth))
	}
	if cfg.Engine.TimeoutMs < 1 {
		errs = append(errs, fmt.Sprintf("engine.timeout_ms must be positive, got %d", cfg.Engine.TimeoutMs))
	}
	switch cfg.Store.Backend {
	case BackendMemory:
	case BackendRedis:
		if cfg.Store.RedisAddr == "" {
			errs = append(errs, "store.redis_addr is required for the redis backend")
		}
	default:
		errs = append(errs, fmt.Sprintf("store.backend must be %q or %q, got %q", BackendMemory, BackendRedis, cfg.Store.Backend))
	}

	ids := make(map[string]int)
	for i, bp := range cfg.Blueprints {
		if bp.ID == "" {
			errs = append(errs, fmt.Sprintf("blueprints[%d]: id is required", i))
			continue
		}
		if prev, ok := ids[bp.ID]; ok {
			errs = append(errs, fmt.Sprintf("duplicate blueprint id %q (blueprints[%d] and blueprints[%d])", bp.ID, prev, i))
		} else {
			ids[bp.ID] = i
		}
		validateBlueprint(bp, &errs)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w:\n  - %s", ErrInvalid, strings.Join(errs, "\n  - "))
	}
	return nil
}

func validateBlueprint(bp funnel.Blueprint, errs *[]string) {
	loc := fmt.Sprintf("blueprint %s", bp.ID)
	nodes := make(map[string]struct{}, len(bp.Components))
	for j, n := range bp.Components {
		switch {
		case n.ID == "":
			*errs = append(*errs, fmt.Sprintf("%s.components[%d]: id is required", loc, j))
			continue
		case n.Type == "":
			*errs = append(*errs, fmt.Sprintf("%s: component %s: type is required", loc, n.ID))
		}
		if _, dup := nodes[n.ID]; dup {
			*errs = append(*errs, fmt.Sprintf("%s: duplicate component id %q", loc, n.ID))
		}
		nodes[n.ID] = struct{}{}
	}
	for j, e := range bp.Connections {
		if e.SourceID == e.TargetID {
			*errs = append(*errs, fmt.Sprintf("%s.connections[%d]: self-loop on %q", loc, j, e.SourceID))
			continue
		}
		for _, end := range []string{e.SourceID, e.TargetID} {
			if _, ok := nodes[end]; !ok {
				*errs = append(*errs, fmt.Sprintf("%s.connections[%d]: unknown component %q", loc, j, end))
			}
		}
	}
	p := bp.Params
	if !p.Valid() {
		*errs = append(*errs, fmt.Sprintf("%s: global parameters must be non-negative", loc))
	}
	if p.ProfitMargin > 1 {
		*errs = append(*errs, fmt.Sprintf("%s: profit_margin must be within [0,1], got %v", loc, p.ProfitMargin))
	}
}
