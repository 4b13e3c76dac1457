package types

type Channel string

const (
	ChannelBody   Channel = "body"
	ChannelQuery  Channel = "query"
	ChannelParams Channel = "params"
)

// Fragment is the partial context a middleware contributes; it is
// shallow-merged into the accumulated request context, later keys winning.
type Fragment map[string]interface{}

// Context is the read-only view of the accumulated request context handed to
// middlewares and the terminal handler. The mutable map behind it is owned by
// the orchestrator and never escapes the request.
type Context interface {
	Get(key string) (interface{}, bool)
	MustGet(key string) interface{}
	Has(key string) bool
	Keys() []string
	Len() int
}

type Middleware func(ctx *RequestCtx, c Context) (Fragment, error)

type HandlerFunc func(ctx *RequestCtx, c Context) (interface{}, error)

// RequestHandler is the frozen, invocable form of a pipeline, suitable for
// route registration.
type RequestHandler func(ctx *RequestCtx)
