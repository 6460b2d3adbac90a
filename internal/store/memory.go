package store

import (
	"context"
	"sync"
	"time"

	"github.com/gyaneshwarpardhi/funnelsim/internal/funnel"
)

// Memory keeps scenarios in a map. Contents are lost on restart.
type Memory struct {
	mu        sync.RWMutex
	scenarios map[string]funnel.Scenario
	now       func() time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{scenarios: make(map[string]funnel.Scenario), now: time.Now}
}

func (m *Memory) List(_ context.Context) ([]funnel.Scenario, error) {
	m.mu.RLock()
	out := make([]funnel.Scenario, 0, len(m.scenarios))
	for _, s := range m.scenarios {
		out = append(out, s)
	}
	m.mu.RUnlock()
	sortScenarios(out)
	return out, nil
}

func (m *Memory) Get(_ context.Context, id string) (*funnel.Scenario, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.scenarios[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *Memory) Create(_ context.Context, s *funnel.Scenario) (*funnel.Scenario, error) {
	out := stamp(s, m.now().UTC())
	m.mu.Lock()
	m.scenarios[out.ID] = out
	m.mu.Unlock()
	return &out, nil
}

func (m *Memory) Update(_ context.Context, id string, p Patch, check Check) (*funnel.Scenario, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.scenarios[id]
	if !ok {
		return nil, ErrNotFound
	}
	s = p.Apply(s, m.now().UTC())
	if check != nil {
		if err := check(s); err != nil {
			return nil, err
		}
	}
	m.scenarios[id] = s
	return &s, nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.scenarios[id]; !ok {
		return ErrNotFound
	}
	delete(m.scenarios, id)
	return nil
}

func (m *Memory) Close() error { return nil }

var _ Store = (*Memory)(nil)
