package middleware

import (
	"testing"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/saiset-co/sai-pipeline/types"
)

type emptyContext struct{}

func (emptyContext) Get(key string) (interface{}, bool) { return nil, false }
func (emptyContext) MustGet(key string) interface{}     { panic("missing key") }
func (emptyContext) Has(key string) bool                { return false }
func (emptyContext) Keys() []string                     { return nil }
func (emptyContext) Len() int                           { return 0 }

func newTestCtx(method, uri string) *types.RequestCtx {
	fctx := new(fasthttp.RequestCtx)
	fctx.Request.Header.SetMethod(method)
	fctx.Request.SetRequestURI(uri)
	return types.NewRequestCtx(fctx)
}

func TestRequestIDMintsAndEchoes(t *testing.T) {
	ctx := newTestCtx("GET", "/users")

	frag, err := RequestID()(ctx, emptyContext{})
	if err != nil {
		t.Fatalf("middleware error = %v", err)
	}

	id, ok := frag[RequestIDKey].(string)
	if !ok || id == "" {
		t.Fatalf("fragment = %v, want a request id", frag)
	}
	if got := string(ctx.Response.Header.Peek(RequestIDHeader)); got != id {
		t.Fatalf("response header = %q, want %q", got, id)
	}
}

func TestRequestIDReusesInboundHeader(t *testing.T) {
	ctx := newTestCtx("GET", "/users")
	ctx.Request.Header.Set(RequestIDHeader, "inbound-7")

	frag, err := RequestID()(ctx, emptyContext{})
	if err != nil {
		t.Fatalf("middleware error = %v", err)
	}

	if frag[RequestIDKey] != "inbound-7" {
		t.Fatalf("fragment = %v, want the inbound id", frag)
	}
}

func TestTokenAuthDisabledPassesThrough(t *testing.T) {
	mw := TokenAuth(&types.AuthConfig{Enabled: false}, nil)
	ctx := newTestCtx("GET", "/users")

	frag, err := mw(ctx, emptyContext{})
	if err != nil || frag != nil {
		t.Fatalf("disabled auth returned %v, %v", frag, err)
	}
	if ctx.Responded() {
		t.Fatal("disabled auth must not write a response")
	}
}

func TestTokenAuthAccepts(t *testing.T) {
	mw := TokenAuth(&types.AuthConfig{Enabled: true, Token: "secret", Header: "Token"}, nil)
	ctx := newTestCtx("GET", "/users")
	ctx.Request.Header.Set("Token", "secret")

	frag, err := mw(ctx, emptyContext{})
	if err != nil {
		t.Fatalf("middleware error = %v", err)
	}
	if frag["authenticated"] != true {
		t.Fatalf("fragment = %v, want authenticated=true", frag)
	}
	if ctx.Responded() {
		t.Fatal("accepted request must not be short-circuited")
	}
}

func TestTokenAuthRejects(t *testing.T) {
	mw := TokenAuth(&types.AuthConfig{Enabled: true, Token: "secret", Header: "Token"}, nil)
	ctx := newTestCtx("GET", "/users")
	ctx.Request.Header.Set("Token", "wrong")

	frag, err := mw(ctx, emptyContext{})
	if err != nil || frag != nil {
		t.Fatalf("rejection returned %v, %v, want clean short-circuit", frag, err)
	}
	if !ctx.Responded() {
		t.Fatal("rejection must write the response")
	}
	if ctx.Response.StatusCode() != fasthttp.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", ctx.Response.StatusCode())
	}
}

type mapCache struct {
	data map[string]interface{}
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string]interface{})}
}

func (m *mapCache) Start() error    { return nil }
func (m *mapCache) Stop() error     { return nil }
func (m *mapCache) IsRunning() bool { return true }

func (m *mapCache) Delete(key string) error {
	delete(m.data, key)
	return nil
}

func (m *mapCache) Get(key string) (interface{}, bool) {
	value, ok := m.data[key]
	return value, ok
}

func (m *mapCache) Set(key string, value interface{}, ttl time.Duration) error {
	m.data[key] = value
	return nil
}

func TestCacheStoresAndServes(t *testing.T) {
	manager := newMapCache()
	handlerCalls := 0

	handler := Cache(manager, time.Minute, func(ctx *types.RequestCtx) {
		handlerCalls++
		ctx.Respond(fasthttp.StatusOK, "application/json", []byte(`{"id":1}`))
	})

	first := newTestCtx("GET", "/users/1")
	handler(first)

	if handlerCalls != 1 {
		t.Fatalf("handler calls = %d, want 1", handlerCalls)
	}

	second := newTestCtx("GET", "/users/1")
	handler(second)

	if handlerCalls != 1 {
		t.Fatalf("handler calls = %d, want cached second request", handlerCalls)
	}
	if second.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("status = %d, want 200", second.Response.StatusCode())
	}
	if string(second.Response.Body()) != `{"id":1}` {
		t.Fatalf("body = %q", second.Response.Body())
	}
	if string(second.Response.Header.ContentType()) != "application/json" {
		t.Fatalf("content type = %q", second.Response.Header.ContentType())
	}
}

func TestCacheSkipsNonGET(t *testing.T) {
	manager := newMapCache()
	handlerCalls := 0

	handler := Cache(manager, time.Minute, func(ctx *types.RequestCtx) {
		handlerCalls++
		ctx.Respond(fasthttp.StatusOK, "application/json", []byte(`{}`))
	})

	handler(newTestCtx("POST", "/users"))
	handler(newTestCtx("POST", "/users"))

	if handlerCalls != 2 {
		t.Fatalf("handler calls = %d, want 2 for POST", handlerCalls)
	}
	if len(manager.data) != 0 {
		t.Fatalf("cache = %v, want empty", manager.data)
	}
}

func TestCacheSkipsErrorResponses(t *testing.T) {
	manager := newMapCache()

	handler := Cache(manager, time.Minute, func(ctx *types.RequestCtx) {
		ctx.Respond(fasthttp.StatusInternalServerError, "application/json", []byte(`{}`))
	})

	handler(newTestCtx("GET", "/broken"))

	if len(manager.data) != 0 {
		t.Fatalf("cache = %v, want no entry for a 500", manager.data)
	}
}

func TestCacheToleratesJSONRoundTrip(t *testing.T) {
	manager := newMapCache()
	handlerCalls := 0

	handler := Cache(manager, time.Minute, func(ctx *types.RequestCtx) {
		handlerCalls++
		ctx.Respond(fasthttp.StatusOK, "text/plain", []byte("hello"))
	})

	handler(newTestCtx("GET", "/greeting"))

	// Simulate what the redis backend hands back after a JSON round-trip.
	for key, value := range manager.data {
		cached := value.(*cachedResponse)
		manager.data[key] = map[string]interface{}{
			"status":       float64(cached.Status),
			"content_type": cached.ContentType,
			"body":         "aGVsbG8=",
		}
	}

	ctx := newTestCtx("GET", "/greeting")
	handler(ctx)

	if handlerCalls != 1 {
		t.Fatalf("handler calls = %d, want cached second request", handlerCalls)
	}
	if string(ctx.Response.Body()) != "hello" {
		t.Fatalf("body = %q, want hello", ctx.Response.Body())
	}
}
