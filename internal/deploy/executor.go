package deploy

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/provnet/ztp/internal/device"
	"github.com/provnet/ztp/internal/plan"
	"github.com/provnet/ztp/internal/util/retry"
)

// Options configures run-wide executor behavior. Retry policy is not here:
// it belongs to the deployment plan.
type Options struct {
	// Concurrency is the maximum number of simultaneous in-flight device
	// operations. Values below 2 mean strictly sequential execution.
	Concurrency int

	// FailFast stops launching new targets after the first failure.
	// The default is best-effort: every target is attempted regardless
	// of earlier failures.
	FailFast bool
}

// Executor drives the per-target deployment state machine.
type Executor struct {
	client   device.Client
	observer Observer
	metrics  *Metrics
	opts     Options
}

// NewExecutor creates an executor. A nil observer discards events; a nil
// metrics value records nothing.
func NewExecutor(client device.Client, observer Observer, metrics *Metrics, opts Options) *Executor {
	if observer == nil {
		observer = NopObserver{}
	}
	return &Executor{
		client:   client,
		observer: observer,
		metrics:  metrics,
		opts:     opts,
	}
}

// Run executes the plan and returns one terminal result per target, in
// plan order. Targets run independently: they share only the immutable
// payload, and each goroutine writes exclusively to its own result slot.
//
// Cancelling ctx stops launching new targets — those are reported as
// skipped — while targets already in flight finish to a terminal state.
// Run returns only after every target is terminal.
func (e *Executor) Run(ctx context.Context, p *plan.Plan) []Result {
	results := make([]Result, len(p.Targets))
	for i, tp := range p.Targets {
		results[i] = Result{Target: tp.Target, State: StatePending}
	}

	e.observer.Event(Event{Type: EventRunStarted, Fields: map[string]string{
		"targets": strconv.Itoa(len(p.Targets)),
	}})

	workers := e.opts.Concurrency
	if workers < 1 {
		workers = 1
	}
	sem := make(chan struct{}, workers)

	var failed atomic.Bool
	var wg sync.WaitGroup
	for i := range p.Targets {
		if e.opts.FailFast && failed.Load() {
			e.skip(&results[i], "earlier target failed and fail-fast is enabled")
			continue
		}

		select {
		case <-ctx.Done():
			e.skip(&results[i], "run canceled before target was attempted")
			continue
		case sem <- struct{}{}:
		}

		// Re-check after waiting for a slot: cancellation or a fail-fast
		// trip may have landed while this target was queued.
		if ctx.Err() != nil {
			<-sem
			e.skip(&results[i], "run canceled before target was attempted")
			continue
		}
		if e.opts.FailFast && failed.Load() {
			<-sem
			e.skip(&results[i], "earlier target failed and fail-fast is enabled")
			continue
		}

		wg.Add(1)
		go func(res *Result, tp plan.TargetPlan) {
			defer wg.Done()
			defer func() { <-sem }()

			e.runTarget(ctx, res, tp, p.Retry)
			if res.State == StateFailed {
				failed.Store(true)
			}
		}(&results[i], p.Targets[i])
	}

	// Barrier: the report may only be assembled once every target has
	// reached a terminal state.
	wg.Wait()

	e.observer.Event(Event{Type: EventRunCompleted})
	return results
}

// runTarget drives one target from pending to a terminal state.
func (e *Executor) runTarget(ctx context.Context, res *Result, tp plan.TargetPlan, policy plan.RetryPolicy) {
	obs := e.observer.WithFields(map[string]string{"target": tp.Target.Identifier})

	res.advance(StateInProgress)
	obs.Event(Event{Type: EventTargetStarted, Target: tp.Target.Identifier})

	start := time.Now()
	attempts, err := retry.Do(ctx, func(ctx context.Context) error {
		applyCtx := ctx
		if policy.AttemptTimeout > 0 {
			var cancel context.CancelFunc
			applyCtx, cancel = context.WithTimeout(ctx, policy.AttemptTimeout)
			defer cancel()
		}

		applyErr := e.client.Apply(applyCtx, tp.Target, tp.Payload)
		e.metrics.observeAttempt(tp.Target.Identifier, applyErr)
		if applyErr != nil {
			obs.Event(Event{
				Type:    EventTargetAttemptFailed,
				Target:  tp.Target.Identifier,
				Message: applyErr.Error(),
			})
		}
		return applyErr
	},
		retry.WithMaxAttempts(policy.MaxAttempts),
		retry.WithInitialDelay(policy.InitialDelay),
		retry.WithMaxDelay(policy.MaxDelay),
	)

	res.Attempts = attempts
	res.Duration = time.Since(start)

	if err != nil {
		res.LastError = err.Error()
		res.advance(StateFailed)
		obs.Event(Event{Type: EventTargetFailed, Target: tp.Target.Identifier, Message: err.Error(), Fields: map[string]string{
			"attempts": strconv.Itoa(attempts),
		}})
	} else {
		res.advance(StateSucceeded)
		obs.Event(Event{Type: EventTargetSucceeded, Target: tp.Target.Identifier, Fields: map[string]string{
			"attempts": strconv.Itoa(attempts),
		}})
	}
	e.metrics.observeResult(*res)
}

// skip marks a never-attempted target as terminal.
func (e *Executor) skip(res *Result, reason string) {
	res.LastError = reason
	res.advance(StateSkipped)
	e.observer.Event(Event{Type: EventTargetSkipped, Target: res.Target.Identifier, Message: reason})
	e.metrics.observeSkip(*res)
}
