package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/gyaneshwarpardhi/funnelsim/internal/funnel"
)

// Redis stores each scenario as a JSON string and tracks ids in a set.
type Redis struct {
	rdb       *goredis.Client
	keyPrefix string
	now       func() time.Time
}

// NewRedis creates a store backed by rdb. Keys are prefixed with keyPrefix.
func NewRedis(rdb *goredis.Client, keyPrefix string) *Redis {
	return &Redis{rdb: rdb, keyPrefix: keyPrefix, now: time.Now}
}

func (r *Redis) key(id string) string {
	if r.keyPrefix == "" {
		return "scenario:" + id
	}
	return r.keyPrefix + ":scenario:" + id
}

func (r *Redis) indexKey() string {
	if r.keyPrefix == "" {
		return "scenarios"
	}
	return r.keyPrefix + ":scenarios"
}

func (r *Redis) List(ctx context.Context) ([]funnel.Scenario, error) {
	ids, err := r.rdb.SMembers(ctx, r.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("store: list ids: %w", err)
	}
	out := make([]funnel.Scenario, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.key(id)
	}
	vals, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("store: list values: %w", err)
	}
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			continue // removed between SMEMBERS and MGET
		}
		var s funnel.Scenario
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			return nil, fmt.Errorf("store: decode %s: %w", ids[i], err)
		}
		out = append(out, s)
	}
	sortScenarios(out)
	return out, nil
}

func (r *Redis) Get(ctx context.Context, id string) (*funnel.Scenario, error) {
	return r.get(ctx, r.rdb, id)
}

type getter interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
}

func (r *Redis) get(ctx context.Context, c getter, id string) (*funnel.Scenario, error) {
	raw, err := c.Get(ctx, r.key(id)).Result()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get %s: %w", id, err)
	}
	var s funnel.Scenario
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", id, err)
	}
	return &s, nil
}

func (r *Redis) Create(ctx context.Context, s *funnel.Scenario) (*funnel.Scenario, error) {
	out := stamp(s, r.now().UTC())
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("store: encode %s: %w", out.ID, err)
	}
	_, err = r.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.Set(ctx, r.key(out.ID), data, 0)
		p.SAdd(ctx, r.indexKey(), out.ID)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store: create %s: %w", out.ID, err)
	}
	return &out, nil
}

// Update applies p under WATCH so concurrent writers do not lose updates.
// check runs on the merged value inside the watched transaction.
func (r *Redis) Update(ctx context.Context, id string, p Patch, check Check) (*funnel.Scenario, error) {
	var out funnel.Scenario
	var rejected error
	err := r.rdb.Watch(ctx, func(tx *goredis.Tx) error {
		cur, err := r.get(ctx, tx, id)
		if err != nil {
			return err
		}
		out = p.Apply(*cur, r.now().UTC())
		if check != nil {
			if rejected = check(out); rejected != nil {
				return rejected
			}
		}
		data, err := json.Marshal(out)
		if err != nil {
			return fmt.Errorf("store: encode %s: %w", id, err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, r.key(id), data, 0)
			return nil
		})
		return err
	}, r.key(id))
	if rejected != nil {
		return nil, rejected
	}
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("store: update %s: %w", id, err)
	}
	return &out, nil
}

func (r *Redis) Delete(ctx context.Context, id string) error {
	var del *goredis.IntCmd
	_, err := r.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		del = p.Del(ctx, r.key(id))
		p.SRem(ctx, r.indexKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("store: delete %s: %w", id, err)
	}
	if del.Val() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Redis) Close() error { return r.rdb.Close() }

var _ Store = (*Redis)(nil)
