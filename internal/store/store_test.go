package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/gyaneshwarpardhi/funnelsim/internal/config"
	"github.com/gyaneshwarpardhi/funnelsim/internal/funnel"
	"github.com/gyaneshwarpardhi/funnelsim/internal/store"
)

// newRedisStore creates a store.Redis backed by miniredis for testing.
func newRedisStore(t *testing.T) store.Store {
	t.Helper()
	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(func() { mini.Close() })

	s, err := store.New(context.Background(), config.StoreConf{
		Backend:   config.BackendRedis,
		RedisAddr: mini.Addr(),
		KeyPrefix: "test",
	})
	if err != nil {
		t.Fatalf("failed to open redis store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var backends = map[string]func(t *testing.T) store.Store{
	"memory": func(*testing.T) store.Store { return store.NewMemory() },
	"redis":  newRedisStore,
}

func scenario(name string) *funnel.Scenario {
	return &funnel.Scenario{
		Name: name,
		Components: []funnel.Node{
			{ID: "g", Type: "google-ads", Properties: map[string]interface{}{"cpc": 2.0, "budget": 4000.0}},
		},
		Params: funnel.Params{MonthlyBudget: 10000, AverageCheckSize: 50, CustomerLifetimeVisits: 5, ProfitMargin: 0.3},
	}
}

func TestStore_CRUD(t *testing.T) {
	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			ctx := context.Background()

			created, err := s.Create(ctx, scenario("first"))
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			if created.ID == "" || created.CreatedAt.IsZero() || !created.CreatedAt.Equal(created.UpdatedAt) {
				t.Fatalf("Create did not stamp scenario: %+v", created)
			}

			got, err := s.Get(ctx, created.ID)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got.Name != "first" || len(got.Components) != 1 {
				t.Errorf("Get = %+v", got)
			}
			if v, _ := funnel.Number(got.Components[0].Properties["budget"]); v != 4000 {
				t.Errorf("budget = %v, want 4000", v)
			}

			rename := "renamed"
			updated, err := s.Update(ctx, created.ID, store.Patch{Name: &rename}, nil)
			if err != nil {
				t.Fatalf("Update: %v", err)
			}
			if updated.Name != "renamed" || len(updated.Components) != 1 {
				t.Errorf("Update = %+v", updated)
			}
			if updated.UpdatedAt.Before(created.UpdatedAt) {
				t.Errorf("UpdatedAt went backwards")
			}

			if _, err := s.Create(ctx, scenario("second")); err != nil {
				t.Fatalf("Create second: %v", err)
			}
			list, err := s.List(ctx)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(list) != 2 {
				t.Errorf("List = %d scenarios, want 2", len(list))
			}

			if err := s.Delete(ctx, created.ID); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := s.Get(ctx, created.ID); !errors.Is(err, store.ErrNotFound) {
				t.Errorf("Get after delete: expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestStore_NotFound(t *testing.T) {
	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			ctx := context.Background()

			if _, err := s.Get(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
				t.Errorf("Get: expected ErrNotFound, got %v", err)
			}
			if _, err := s.Update(ctx, "missing", store.Patch{}, nil); !errors.Is(err, store.ErrNotFound) {
				t.Errorf("Update: expected ErrNotFound, got %v", err)
			}
			if err := s.Delete(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
				t.Errorf("Delete: expected ErrNotFound, got %v", err)
			}
			list, err := s.List(ctx)
			if err != nil || len(list) != 0 {
				t.Errorf("List on empty store = %v, %v", list, err)
			}
		})
	}
}

func TestStore_UpdateCheckRejects(t *testing.T) {
	errRejected := errors.New("rejected")
	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			ctx := context.Background()

			created, err := s.Create(ctx, scenario("keep"))
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			rename := "dropped"
			var seen string
			_, err = s.Update(ctx, created.ID, store.Patch{Name: &rename}, func(merged funnel.Scenario) error {
				seen = merged.Name
				return errRejected
			})
			if !errors.Is(err, errRejected) {
				t.Fatalf("Update: expected check error, got %v", err)
			}
			if seen != "dropped" {
				t.Errorf("check saw name %q, want the merged value", seen)
			}
			got, err := s.Get(ctx, created.ID)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got.Name != "keep" {
				t.Errorf("rejected update was persisted: name = %q", got.Name)
			}
		})
	}
}

func TestRedis_KeyLayout(t *testing.T) {
	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mini.Close()

	s := store.NewRedis(goredis.NewClient(&goredis.Options{Addr: mini.Addr()}), "fs")
	defer s.Close()

	created, err := s.Create(context.Background(), scenario("keys"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !mini.Exists("fs:scenario:" + created.ID) {
		t.Errorf("scenario key missing")
	}
	if ok, _ := mini.SIsMember("fs:scenarios", created.ID); !ok {
		t.Errorf("id missing from index set")
	}
}

func TestNew_UnknownBackend(t *testing.T) {
	if _, err := store.New(context.Background(), config.StoreConf{Backend: "etcd"}); err == nil {
		t.Errorf("expected error for unknown backend")
	}
}
