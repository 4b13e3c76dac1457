package middleware

import (
	"github.com/google/uuid"

	"github.com/saiset-co/sai-pipeline/types"
)

const (
	RequestIDHeader = "X-Request-Id"
	RequestIDKey    = "request_id"
)

// RequestID reuses an inbound request id or mints one, echoes it on the
// response, and contributes it to the request context.
func RequestID() types.Middleware {
	return func(ctx *types.RequestCtx, c types.Context) (types.Fragment, error) {
		id := string(ctx.Request.Header.Peek(RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}

		ctx.SetResponseHeader(RequestIDHeader, id)

		return types.Fragment{RequestIDKey: id}, nil
	}
}
