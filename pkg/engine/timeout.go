package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/chazu/pipesys/pkg/model"
)

// EvalTimeout is the default hard limit for a single evaluation.
//
// The limit bounds how long Evaluate waits, not how long the script runs.
// zygomys has no preemption hook, so a timed-out script keeps its goroutine
// and sandbox until it returns on its own; its result is then dropped into a
// buffered channel and discarded. A script that never terminates leaks one
// goroutine per call. Callers evaluating untrusted scripts in a long-lived
// process should run them in a child process they can kill.
const EvalTimeout = 5 * time.Second

// evalResult passes evaluation results through channels.
type evalResult struct {
	doc    *model.Document
	errors []EvalError
	err    error
}

// newResultChan returns the channel an evaluation goroutine reports on. It
// is buffered so a result that arrives after the timeout never blocks.
func newResultChan() chan evalResult {
	return make(chan evalResult, 1)
}

// waitWithTimeout waits for a result from ch, but returns a timeout error
// if the evaluation exceeds timeout. It uses a generation counter to
// discard stale results from previous evaluations.
//
// On timeout, the goroutine may still be running; the generation check
// ensures its result is discarded when it eventually completes.
func waitWithTimeout(
	ch <-chan evalResult,
	gen uint64,
	mu *sync.Mutex,
	currentGen *uint64,
	timeout time.Duration,
) (*model.Document, []EvalError, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()

		if gen != current {
			return nil, nil, fmt.Errorf("evaluation superseded by newer request")
		}

		return res.doc, res.errors, res.err

	case <-timer.C:
		return nil, nil, fmt.Errorf("evaluation timed out after %s", timeout)
	}
}
