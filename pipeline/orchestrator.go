package pipeline

import (
	"time"

	"go.uber.org/zap"

	"github.com/saiset-co/sai-pipeline/types"
)

const (
	OutcomeSuccess           = "success"
	OutcomeError             = "error"
	OutcomeValidationFailure = "validation_failure"
	OutcomeAnomaly           = "post_response_anomaly"
	OutcomeShortCircuit      = "short_circuit"
	OutcomeHandlerResponded  = "handler_responded"
)

var durationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}

// run drives one request through the order list and routes the outcome to at
// most one lifecycle callback. Stages execute strictly in declaration order;
// once any stage initiates the response, remaining stages and the terminal
// handler are skipped. Contract violations (misbehaving validator, a
// validation-failure callback that leaves the response unwritten) panic and
// propagate to the transport's top-level handling, as do panics raised by the
// callbacks themselves.
func (p *Pipeline) run(ctx *types.RequestCtx) {
	start := time.Now()
	state := newExecState()

	outcome := p.execute(ctx, state)
	p.observe(ctx, outcome, start)
}

func (p *Pipeline) execute(ctx *types.RequestCtx, state *execState) string {
	for _, s := range p.order {
		var (
			done    bool
			outcome string
		)

		switch s.kind {
		case stageValidation:
			done, outcome = p.runValidation(ctx, s.channel)
		case stageMiddleware:
			done, outcome = p.runMiddleware(ctx, state, s.index)
		}

		if done {
			return outcome
		}

		if ctx.Responded() {
			return OutcomeShortCircuit
		}
	}

	value, err := p.invokeTerminal(ctx, state)

	switch {
	case !ctx.Responded() && err == nil:
		p.handlers.OnSuccess(ctx, value)
		return OutcomeSuccess
	case !ctx.Responded():
		p.handlers.OnError(ctx, err)
		return OutcomeError
	case value != nil || err != nil:
		p.handlers.OnPostResponseAnomaly(ctx, value, err)
		return OutcomeAnomaly
	default:
		// Handler completed the response itself and returned nothing.
		return OutcomeHandlerResponded
	}
}

func (p *Pipeline) runValidation(ctx *types.RequestCtx, channel types.Channel) (bool, string) {
	parsed, err := p.validators[channel].Parse(ctx.RawValue(channel))
	if err != nil {
		verr, ok := err.(*types.ValidationError)
		if !ok {
			panic(types.Errorf(types.ErrValidatorContract,
				"channel %s: validator returned %T instead of *types.ValidationError: %v", channel, err, err))
		}

		p.handlers.OnValidationFailure(ctx, verr)
		if !ctx.Responded() {
			panic(types.Errorf(types.ErrHandlerContract,
				"validation failure callback left the response unwritten (channel %s): %v", channel, verr))
		}
		return true, OutcomeValidationFailure
	}

	ctx.SetChannelValue(channel, parsed)
	return false, ""
}

func (p *Pipeline) runMiddleware(ctx *types.RequestCtx, state *execState, index int) (bool, string) {
	frag, err := p.safeMiddleware(ctx, state.view(), index)

	if ctx.Responded() {
		if len(frag) > 0 || err != nil {
			p.handlers.OnPostResponseAnomaly(ctx, fragmentValue(frag), err)
			return true, OutcomeAnomaly
		}
		return true, OutcomeShortCircuit
	}

	if err != nil {
		p.handlers.OnError(ctx, err)
		return true, OutcomeError
	}

	state.merge(frag)
	return false, ""
}

func (p *Pipeline) safeMiddleware(ctx *types.RequestCtx, view types.Context, index int) (frag types.Fragment, err error) {
	defer func() {
		if r := recover(); r != nil {
			frag = nil
			err = types.Errorf(types.ErrStagePanic, "middleware %d: %v", index, r)
		}
	}()

	return p.middlewares[index](ctx, view)
}

func (p *Pipeline) invokeTerminal(ctx *types.RequestCtx, state *execState) (value interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			value = nil
			err = types.Errorf(types.ErrStagePanic, "terminal handler: %v", r)
		}
	}()

	return p.terminal(ctx, state.view())
}

func fragmentValue(frag types.Fragment) interface{} {
	if len(frag) == 0 {
		return nil
	}
	return frag
}

func (p *Pipeline) observe(ctx *types.RequestCtx, outcome string, start time.Time) {
	if p.metrics != nil {
		labels := map[string]string{"route": p.route, "outcome": outcome}
		p.metrics.Counter("pipeline_outcomes_total", labels).Inc()
		p.metrics.Histogram("pipeline_duration_seconds", durationBuckets, labels).ObserveDuration(start)
	}

	if p.logger != nil {
		p.logger.Debug("pipeline completed",
			zap.String("route", p.route),
			zap.String("outcome", outcome),
			zap.Int("status", ctx.Response.StatusCode()),
			zap.Duration("duration", time.Since(start)))
	}
}
