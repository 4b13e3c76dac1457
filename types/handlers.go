package types

// Handlers is the lifecycle callback contract. The orchestrator routes every
// request outcome to exactly one of the four callbacks.
//
// OnValidationFailure must complete the response; leaving it unwritten is a
// contract violation the orchestrator escalates. OnPostResponseAnomaly is
// advisory only and must not write to the transport. Panics raised by a
// callback propagate uncaught.
type Handlers interface {
	OnValidationFailure(ctx *RequestCtx, verr *ValidationError)
	OnError(ctx *RequestCtx, err error)
	OnSuccess(ctx *RequestCtx, value interface{})
	OnPostResponseAnomaly(ctx *RequestCtx, value interface{}, err error)
}
