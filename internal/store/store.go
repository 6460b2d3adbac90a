package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/gyaneshwarpardhi/funnelsim/internal/config"
	"github.com/gyaneshwarpardhi/funnelsim/internal/funnel"
)

var ErrNotFound = errors.New("scenario not found")

// Store defines the contract for persisting and retrieving scenarios.
type Store interface {
	List(ctx context.Context) ([]funnel.Scenario, error)
	Get(ctx context.Context, id string) (*funnel.Scenario, error)
	Create(ctx context.Context, s *funnel.Scenario) (*funnel.Scenario, error)
	// Update applies p atomically. check, when non-nil, sees the merged
	// scenario before it is written; its error aborts the update unchanged.
	Update(ctx context.Context, id string, p Patch, check Check) (*funnel.Scenario, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// Check vets a merged scenario before Update persists it.
type Check func(funnel.Scenario) error

// Patch is a partial update; nil fields are left unchanged.
type Patch struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	Components  *[]funnel.Node `json:"components"`
	Connections *[]funnel.Edge `json:"connections"`
	Params      *funnel.Params `json:"globalParameters"`
}

// Apply returns s with the patch applied and UpdatedAt set to now.
func (p Patch) Apply(s funnel.Scenario, now time.Time) funnel.Scenario {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Description != nil {
		s.Description = *p.Description
	}
	if p.Components != nil {
		s.Components = *p.Components
	}
	if p.Connections != nil {
		s.Connections = *p.Connections
	}
	if p.Params != nil {
		s.Params = *p.Params
	}
	s.UpdatedAt = now
	return s
}

// New opens the backend selected by conf.
func New(ctx context.Context, conf config.StoreConf) (Store, error) {
	switch conf.Backend {
	case config.BackendMemory, "":
		return NewMemory(), nil
	case config.BackendRedis:
		rdb := goredis.NewClient(&goredis.Options{Addr: conf.RedisAddr, DB: conf.RedisDB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, fmt.Errorf("store: redis ping %s: %w", conf.RedisAddr, err)
		}
		return NewRedis(rdb, conf.KeyPrefix), nil
	default:
		return nil, fmt.Errorf("store: unknown backend %q", conf.Backend)
	}
}

// stamp assigns an id (when missing) and both timestamps.
func stamp(s *funnel.Scenario, now time.Time) funnel.Scenario {
	out := *s
	if out.ID == "" {
		out.ID = uuid.NewString()
	}
	out.CreatedAt = now
	out.UpdatedAt = now
	return out
}

func sortScenarios(ss []funnel.Scenario) {
	sort.Slice(ss, func(i, j int) bool {
		if !ss[i].CreatedAt.Equal(ss[j].CreatedAt) {
			return ss[i].CreatedAt.Before(ss[j].CreatedAt)
		}
		return ss[i].ID < ss[j].ID
	})
}
