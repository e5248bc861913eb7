// Package worker provides goroutine pool management.
//
// Background and fan-out work goes through a Pool so concurrency stays
// bounded and every task observes its context.
package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"storecast.io/notifier/internal/pkg/logger"
)

// ErrPoolClosed is returned when submitting to a closed pool.
var ErrPoolClosed = errors.New("worker pool is closed")

// Task is a context-aware task function.
type Task func(ctx context.Context)

// Pool wraps ants.Pool with context-aware submission.
type Pool struct {
	pool *ants.Pool
	name string
}

// Pools is the worker pool collection.
type Pools struct {
	// General runs detached background work.
	General *Pool
	// Dispatch runs per-recipient delivery fan-out.
	Dispatch *Pool

	serviceCtx    context.Context
	serviceCancel context.CancelFunc
}

// PoolConfig contains worker pool sizes.
type PoolConfig struct {
	GeneralPoolSize  int
	DispatchPoolSize int
}

// DefaultPoolConfig returns default configuration.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		GeneralPoolSize:  32,
		DispatchPoolSize: 64,
	}
}

func panicHandler(p interface{}) {
	logger.Error("worker panic recovered",
		zap.Any("panic", p),
		zap.Stack("stack"),
	)
}

// NewPool creates a single named pool.
func NewPool(name string, size int) (*Pool, error) {
	p, err := ants.NewPool(size,
		ants.WithPanicHandler(panicHandler),
		ants.WithNonblocking(false),
		ants.WithExpiryDuration(10*time.Second),
	)
	if err != nil {
		return nil, err
	}
	return &Pool{pool: p, name: name}, nil
}

// NewPools creates the worker pool collection.
func NewPools(ctx context.Context, cfg PoolConfig) (*Pools, error) {
	serviceCtx, serviceCancel := context.WithCancel(ctx)

	general, err := NewPool("general", cfg.GeneralPoolSize)
	if err != nil {
		serviceCancel()
		return nil, err
	}

	dispatch, err := NewPool("dispatch", cfg.DispatchPoolSize)
	if err != nil {
		general.Release()
		serviceCancel()
		return nil, err
	}

	return &Pools{
		General:       general,
		Dispatch:      dispatch,
		serviceCtx:    serviceCtx,
		serviceCancel: serviceCancel,
	}, nil
}

// Submit submits a context-aware task.
// If ctx is already cancelled, returns ctx.Err() without submitting.
func (p *Pool) Submit(ctx context.Context, task Task) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	err := p.pool.Submit(func() {
		// ctx may have been cancelled while queued
		select {
		case <-ctx.Done():
			logger.Debug("task skipped: context cancelled",
				zap.String("pool", p.name),
				zap.Error(ctx.Err()),
			)
			return
		default:
		}
		task(ctx)
	})
	if errors.Is(err, ants.ErrPoolClosed) {
		return ErrPoolClosed
	}
	return err
}

// Fanout runs fn(ctx, i) for i in [0, n) on the pool and waits for every
// submitted call to return. Submission stops at the first error, which is
// returned after the already-submitted calls finish. A panicking fn is
// recovered by the pool and does not stop its siblings.
func (p *Pool) Fanout(ctx context.Context, n int, fn func(ctx context.Context, i int)) error {
	var (
		wg       sync.WaitGroup
		firstErr error
	)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			firstErr = err
			break
		}
		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			fn(ctx, i)
		})
		if err != nil {
			wg.Done()
			if errors.Is(err, ants.ErrPoolClosed) {
				err = ErrPoolClosed
			}
			firstErr = err
			break
		}
	}
	wg.Wait()
	return firstErr
}

// Release closes the pool, waiting up to 30s for running tasks.
func (p *Pool) Release() {
	if err := p.pool.ReleaseTimeout(30 * time.Second); err != nil {
		logger.Warn("pool shutdown timeout", zap.String("pool", p.name), zap.Error(err))
	}
}

// Cap returns the pool capacity.
func (p *Pool) Cap() int {
	return p.pool.Cap()
}

// SubmitDetached submits a background task bound to the service lifecycle
// context rather than a request context.
func (p *Pools) SubmitDetached(task Task) error {
	return p.General.Submit(p.serviceCtx, task)
}

// Shutdown cancels detached work and releases all pools.
func (p *Pools) Shutdown() {
	p.serviceCancel()
	p.General.Release()
	p.Dispatch.Release()
}

// Metrics returns pool metrics for observability.
func (p *Pools) Metrics() map[string]interface{} {
	return map[string]interface{}{
		"general": map[string]int{
			"running": p.General.pool.Running(),
			"free":    p.General.pool.Free(),
			"cap":     p.General.pool.Cap(),
		},
		"dispatch": map[string]int{
			"running": p.Dispatch.pool.Running(),
			"free":    p.Dispatch.pool.Free(),
			"cap":     p.Dispatch.pool.Cap(),
		},
	}
}
