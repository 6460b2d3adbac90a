package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gyaneshwarpardhi/funnelsim/internal/config"
	"github.com/gyaneshwarpardhi/funnelsim/internal/funnel"
	"github.com/gyaneshwarpardhi/funnelsim/internal/metrics"
	"github.com/gyaneshwarpardhi/funnelsim/internal/simulate"
)

var (
	ErrQueueFull = errors.New("evaluation queue full")
	ErrTimeout   = errors.New("evaluation timeout")
)

// Request is one funnel snapshot to evaluate.
type Request struct {
	ID          string        `json:"id,omitempty"`
	Components  []funnel.Node `json:"components"`
	Connections []funnel.Edge `json:"connections"`
	Params      funnel.Params `json:"globalParameters"`
}

// Result is the outcome of evaluating a single Request.
type Result struct {
	ID         string  `json:"id,omitempty"`
	DurationMs float64 `json:"duration_ms"`
	simulate.Report
	Error string `json:"error,omitempty"`
}

// Engine evaluates funnels on a bounded worker pool.
type Engine struct {
	blueprints atomic.Pointer[[]funnel.Blueprint]
	evaluator  *simulate.Evaluator
	pool       *workerPool[*evalWork, *Result]
	conf       *config.EngineConf
}

type evalWork struct {
	req      *Request
	enqueued time.Time
}

// New creates an Engine using conf and starts the worker pool.
func New(ctx context.Context, conf config.EngineConf, blueprints []funnel.Blueprint) *Engine {
	e := &Engine{conf: &conf}
	e.blueprints.Store(&blueprints)
	e.evaluator = simulate.New(
		simulate.WithLogger(slog.Default()),
		simulate.WithCycleHook(func([]string) { metrics.CyclesDetected.Inc() }),
	)

	e.pool = newWorkerPool[*evalWork, *Result](
		ctx,
		conf.Workers,
		conf.QueueDepth,
		func(_ context.Context, w *evalWork) *Result { return e.evaluate(w) },
	)

	return e
}

// SwapBlueprints atomically replaces the blueprint catalog (used on hot-reload).
func (e *Engine) SwapBlueprints(bps []funnel.Blueprint) {
	e.blueprints.Store(&bps)
}

// Blueprints returns the current blueprint catalog.
func (e *Engine) Blueprints() []funnel.Blueprint {
	return *e.blueprints.Load()
}

// Blueprint returns the blueprint with the given id.
func (e *Engine) Blueprint(id string) (funnel.Blueprint, bool) {
	for _, bp := range e.Blueprints() {
		if bp.ID == id {
			return bp, true
		}
	}
	return funnel.Blueprint{}, false
}

// ProcessSync evaluates req on the pool and waits for the result.
// Returns ErrQueueFull if the queue is full.
func (e *Engine) ProcessSync(ctx context.Context, req *Request) (*Result, error) {
	resultC, err := e.submit(req)
	if err != nil {
		return nil, err
	}
	return e.await(ctx, resultC)
}

// ProcessBatch evaluates every request and returns results in request order.
// Requests rejected by a full queue carry an error message instead of a report.
func (e *Engine) ProcessBatch(ctx context.Context, reqs []*Request) ([]*Result, error) {
	chans := make([]<-chan *Result, len(reqs))
	results := make([]*Result, len(reqs))
	for i, req := range reqs {
		c, err := e.submit(req)
		if err != nil {
			results[i] = &Result{ID: req.ID, Error: err.Error()}
			continue
		}
		chans[i] = c
	}
	for i, c := range chans {
		if c == nil {
			continue
		}
		res, err := e.await(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("batch item %d: %w", i, err)
		}
		results[i] = res
	}
	return results, nil
}

// QueueUtilization returns queue used / capacity (0–1).
func (e *Engine) QueueUtilization() float64 {
	if e.pool.QueueCap() == 0 {
		return 0
	}
	return float64(e.pool.QueueLen()) / float64(e.pool.QueueCap())
}

func (e *Engine) submit(req *Request) (<-chan *Result, error) {
	resultC, ok := e.pool.Submit(&evalWork{req: req, enqueued: time.Now()})
	if !ok {
		metrics.EvaluationsDropped.Inc()
		return nil, fmt.Errorf("%w (capacity %d)", ErrQueueFull, e.conf.QueueDepth)
	}
	metrics.EvaluationsEnqueued.Inc()
	return resultC, nil
}

func (e *Engine) await(ctx context.Context, resultC <-chan *Result) (*Result, error) {
	timeout := time.Duration(e.conf.TimeoutMs) * time.Millisecond
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-resultC:
		return res, nil
	case <-timer.C:
		return nil, fmt.Errorf("%w after %v", ErrTimeout, timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (e *Engine) evaluate(w *evalWork) *Result {
	rep := e.evaluator.Run(w.req.Components, w.req.Params, w.req.Connections)

	elapsed := float64(time.Since(w.enqueued).Microseconds()) / 1000
	metrics.Evaluations.WithLabelValues(string(rep.Mode)).Inc()
	metrics.EvaluationDuration.Observe(elapsed)

	return &Result{
		ID:         w.req.ID,
		DurationMs: elapsed,
		Report:     rep,
	}
}

// Shutdown drains the pool gracefully.
func (e *Engine) Shutdown() {
	e.pool.Drain()
}
