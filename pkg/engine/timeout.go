package engine

import (
	"errors"
	"fmt"
	"time"
)

// EvalTimeout is the default limit for a single evaluation.
const EvalTimeout = 5 * time.Second

var (
	// ErrSuperseded is returned when a newer evaluation started while this
	// one ran. Its patch is stale and is dropped.
	ErrSuperseded = errors.New("evaluation superseded by newer request")
	// ErrTimeout is returned when a script runs past the engine's limit.
	ErrTimeout = errors.New("evaluation timed out")
)

type evalResult struct {
	patch  *Patch
	errors []EvalError
	err    error
}

// begin starts a new generation and returns its number.
func (e *Engine) begin() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	return e.generation
}

// stale reports whether gen is no longer the latest evaluation.
func (e *Engine) stale(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return gen != e.generation
}

// await collects the result of evaluation gen. A script still running at
// the limit is abandoned; the stale check drops whatever it produces later.
func (e *Engine) await(ch <-chan evalResult, gen uint64) (*Patch, []EvalError, error) {
	limit := e.timeout
	if limit <= 0 {
		limit = EvalTimeout
	}
	timer := time.NewTimer(limit)
	defer timer.Stop()

	select {
	case res := <-ch:
		if e.stale(gen) {
			return nil, nil, ErrSuperseded
		}
		return res.patch, res.errors, res.err
	case <-timer.C:
		return nil, nil, fmt.Errorf("%w after %s", ErrTimeout, limit)
	}
}
