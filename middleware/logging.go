package middleware

import (
	"go.uber.org/zap"

	"github.com/saiset-co/sai-pipeline/types"
)

// Logging logs the inbound request. It contributes nothing to the context.
func Logging(logger types.Logger) types.Middleware {
	return func(ctx *types.RequestCtx, c types.Context) (types.Fragment, error) {
		fields := []zap.Field{
			zap.ByteString("method", ctx.Method()),
			zap.ByteString("path", ctx.Path()),
			zap.String("remote", ctx.RemoteAddr().String()),
		}

		if id, ok := c.Get(RequestIDKey); ok {
			fields = append(fields, zap.Any(RequestIDKey, id))
		}

		logger.Info("request received", fields...)

		return nil, nil
	}
}
