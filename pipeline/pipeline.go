package pipeline

import (
	"github.com/saiset-co/sai-pipeline/types"
)

type stageKind uint8

const (
	stageValidation stageKind = iota
	stageMiddleware
)

// stage is one entry of the order list: either "run validation for channel"
// or "run middleware at index". The order list preserves the exact
// interleaving of the fluent calls that built the pipeline.
type stage struct {
	kind    stageKind
	channel types.Channel
	index   int
}

// Pipeline is a route handler definition: validators per channel, ordered
// middlewares, the declaration-order list interleaving both, and the
// lifecycle callbacks outcomes are routed to. It is built once per route,
// frozen by Handler(), and from then on only read — safe for any number of
// concurrent in-flight requests.
type Pipeline struct {
	validators  map[types.Channel]types.Validator
	middlewares []types.Middleware
	order       []stage
	terminal    types.HandlerFunc
	handlers    types.Handlers
	logger      types.Logger
	metrics     types.MetricsManager
	route       string
	frozen      bool
}

type Option func(*Pipeline)

func WithLogger(logger types.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

func WithMetrics(metrics types.MetricsManager) Option {
	return func(p *Pipeline) {
		p.metrics = metrics
	}
}

// WithRoute sets the route label used for logging and metrics.
func WithRoute(route string) Option {
	return func(p *Pipeline) {
		p.route = route
	}
}

// New creates a pipeline bound to an explicit set of lifecycle callbacks.
// There is no process-wide default handler set; pass handlers.NewDefault for
// the documented envelope behavior.
func New(handlers types.Handlers, opts ...Option) *Pipeline {
	if handlers == nil {
		panic(types.Errorf(types.ErrHandlerIsNil, "pipeline requires lifecycle handlers"))
	}

	p := &Pipeline{
		validators: make(map[types.Channel]types.Validator, 3),
		handlers:   handlers,
		route:      "unnamed",
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

func (p *Pipeline) Body(v types.Validator) *Pipeline {
	return p.validate(types.ChannelBody, v)
}

func (p *Pipeline) Query(v types.Validator) *Pipeline {
	return p.validate(types.ChannelQuery, v)
}

func (p *Pipeline) Params(v types.Validator) *Pipeline {
	return p.validate(types.ChannelParams, v)
}

func (p *Pipeline) validate(channel types.Channel, v types.Validator) *Pipeline {
	if p.frozen {
		panic(types.Errorf(types.ErrPipelineFrozen, "cannot configure %s validation after Handler()", channel))
	}
	if v == nil {
		panic(types.Errorf(types.ErrValidatorIsNil, "channel %s", channel))
	}
	if _, exists := p.validators[channel]; exists {
		panic(types.Errorf(types.ErrChannelConfigured, "channel %s", channel))
	}

	p.validators[channel] = v
	p.order = append(p.order, stage{kind: stageValidation, channel: channel})

	return p
}

func (p *Pipeline) Use(mw types.Middleware) *Pipeline {
	if p.frozen {
		panic(types.Errorf(types.ErrPipelineFrozen, "cannot register middleware after Handler()"))
	}
	if mw == nil {
		panic(types.ErrMiddlewareIsNil)
	}

	p.middlewares = append(p.middlewares, mw)
	p.order = append(p.order, stage{kind: stageMiddleware, index: len(p.middlewares) - 1})

	return p
}

// Handler freezes the definition and returns the invocable request handler.
// Any builder call after this point panics.
func (p *Pipeline) Handler(h types.HandlerFunc) types.RequestHandler {
	if p.frozen {
		panic(types.Errorf(types.ErrPipelineFrozen, "Handler() called twice"))
	}
	if h == nil {
		panic(types.Errorf(types.ErrHandlerIsNil, "terminal handler"))
	}

	p.terminal = h
	p.frozen = true

	return p.run
}

// StageCount reports order-list length: configured channels plus registered
// middlewares.
func (p *Pipeline) StageCount() int {
	return len(p.order)
}
