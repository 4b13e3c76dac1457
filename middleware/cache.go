package middleware

import (
	"time"

	"github.com/valyala/fasthttp"

	"github.com/saiset-co/sai-pipeline/types"
	"github.com/saiset-co/sai-pipeline/utils"
)

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// Cache wraps a frozen pipeline handler with response caching for GET
// requests. A hit writes the stored response before the pipeline runs; a
// miss runs the pipeline and stores successful responses under
// method:path:query.
func Cache(manager types.CacheManager, ttl time.Duration, next types.RequestHandler) types.RequestHandler {
	return func(ctx *types.RequestCtx) {
		if manager == nil || string(ctx.Method()) != fasthttp.MethodGet {
			next(ctx)
			return
		}

		key := cacheKey(ctx)

		if cached, ok := lookup(manager, key); ok {
			ctx.Respond(cached.Status, cached.ContentType, cached.Body)
			return
		}

		next(ctx)

		status := ctx.Response.StatusCode()
		if status >= fasthttp.StatusOK && status < fasthttp.StatusMultipleChoices {
			body := make([]byte, len(ctx.Response.Body()))
			copy(body, ctx.Response.Body())

			_ = manager.Set(key, &cachedResponse{
				Status:      status,
				ContentType: string(ctx.Response.Header.ContentType()),
				Body:        body,
			}, ttl)
		}
	}
}

func cacheKey(ctx *types.RequestCtx) string {
	key := make([]byte, 0, 64)
	key = append(key, ctx.Method()...)
	key = append(key, ':')
	key = append(key, ctx.Path()...)
	key = append(key, '?')
	key = append(key, ctx.QueryArgs().QueryString()...)
	return string(key)
}

// lookup tolerates both in-process values and JSON round-trips from the
// redis backend, where the body comes back base64-encoded.
func lookup(manager types.CacheManager, key string) (*cachedResponse, bool) {
	value, ok := manager.Get(key)
	if !ok {
		return nil, false
	}

	switch cached := value.(type) {
	case *cachedResponse:
		return cached, true
	case map[string]interface{}:
		data, err := utils.Marshal(cached)
		if err != nil {
			return nil, false
		}
		var decoded cachedResponse
		if err := utils.Unmarshal(data, &decoded); err != nil {
			return nil, false
		}
		return &decoded, true
	default:
		return nil, false
	}
}
