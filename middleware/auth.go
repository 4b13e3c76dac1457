package middleware

import (
	"crypto/subtle"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/saiset-co/sai-pipeline/types"
)

const DefaultAuthHeader = "Token"

// TokenAuth compares the configured token against the request header and
// rejects the request with a 401 on mismatch, short-circuiting the pipeline.
// On success it contributes {authenticated: true}.
func TokenAuth(config *types.AuthConfig, logger types.Logger) types.Middleware {
	header := DefaultAuthHeader
	if config != nil && config.Header != "" {
		header = config.Header
	}

	return func(ctx *types.RequestCtx, c types.Context) (types.Fragment, error) {
		if config == nil || !config.Enabled {
			return nil, nil
		}

		token := ctx.Request.Header.Peek(header)
		if subtle.ConstantTimeCompare(token, []byte(config.Token)) != 1 {
			if logger != nil {
				logger.Warn("authentication failed",
					zap.ByteString("path", ctx.Path()),
					zap.String("remote", ctx.RemoteAddr().String()))
			}

			if err := ctx.RespondJSON(fasthttp.StatusUnauthorized, map[string]interface{}{
				"status": "fail",
				"data":   map[string]string{"error": types.ErrAuthTokenInvalid.Error()},
				"meta":   map[string]interface{}{},
			}); err != nil {
				ctx.Error("unauthorized", fasthttp.StatusUnauthorized)
			}
			return nil, nil
		}

		return types.Fragment{"authenticated": true}, nil
	}
}
