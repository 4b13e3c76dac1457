package handlers

import (
	"reflect"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/saiset-co/sai-pipeline/types"
)

// Envelope is the documented default response convention:
// 1xx-3xx -> "success", 4xx -> "fail", 5xx -> "error".
type Envelope struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data"`
	Meta   interface{} `json:"meta"`
}

type Formatter func(status int, body interface{}, meta map[string]interface{}) interface{}

func DefaultFormatter(status int, body interface{}, meta map[string]interface{}) interface{} {
	if meta == nil {
		meta = map[string]interface{}{}
	}
	return Envelope{Status: StatusCategory(status), Data: body, Meta: meta}
}

func StatusCategory(status int) string {
	switch {
	case status < fasthttp.StatusBadRequest:
		return "success"
	case status < fasthttp.StatusInternalServerError:
		return "fail"
	default:
		return "error"
	}
}

// Default is the provided lifecycle callback set. The formatter is explicit
// configuration; there is no process-wide singleton to override.
type Default struct {
	logger    types.Logger
	formatter Formatter
}

type Option func(*Default)

func WithFormatter(formatter Formatter) Option {
	return func(d *Default) {
		d.formatter = formatter
	}
}

func NewDefault(logger types.Logger, opts ...Option) *Default {
	d := &Default{
		logger:    logger,
		formatter: DefaultFormatter,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *Default) OnValidationFailure(ctx *types.RequestCtx, verr *types.ValidationError) {
	body := map[string]interface{}{"fields": verr.Fields}
	d.write(ctx, fasthttp.StatusBadRequest, d.formatter(fasthttp.StatusBadRequest, body, nil))
}

func (d *Default) OnError(ctx *types.RequestCtx, err error) {
	if d.logger != nil {
		d.logger.Error("request failed", zap.Error(err))
	}

	body := map[string]interface{}{"error": err.Error()}
	status := fasthttp.StatusInternalServerError
	d.write(ctx, status, d.formatter(status, body, nil))
}

func (d *Default) OnSuccess(ctx *types.RequestCtx, value interface{}) {
	switch resp := value.(type) {
	case *Response:
		d.writeResponse(ctx, resp)
		return
	case Response:
		d.writeResponse(ctx, &resp)
		return
	}

	if disallowedShape(value) {
		d.OnError(ctx, types.Errorf(types.ErrUnsupportedPayload,
			"terminal handler returned %T", value))
		return
	}

	d.write(ctx, fasthttp.StatusOK, d.formatter(fasthttp.StatusOK, value, nil))
}

func (d *Default) OnPostResponseAnomaly(ctx *types.RequestCtx, value interface{}, err error) {
	if d.logger == nil {
		return
	}

	fields := []zap.Field{
		zap.ByteString("path", ctx.Path()),
		zap.Int("status", ctx.Response.StatusCode()),
	}
	if value != nil {
		fields = append(fields, zap.Any("value", value))
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}

	d.logger.Warn("value produced after response was sent", fields...)
}

func (d *Default) writeResponse(ctx *types.RequestCtx, resp *Response) {
	for key, value := range resp.Headers {
		ctx.SetResponseHeader(key, value)
	}

	if disallowedShape(resp.Body) {
		d.OnError(ctx, types.Errorf(types.ErrUnsupportedPayload,
			"response body is %T", resp.Body))
		return
	}

	d.write(ctx, resp.Status, d.formatter(resp.Status, resp.Body, resp.Meta))
}

func (d *Default) write(ctx *types.RequestCtx, status int, payload interface{}) {
	if err := ctx.RespondJSON(status, payload); err != nil {
		if d.logger != nil {
			d.logger.Error("failed to encode response", zap.Error(err))
		}
		ctx.Error("internal server error", fasthttp.StatusInternalServerError)
	}
}

// disallowedShape rejects values with no serializable representation; they
// signal a handler bug and are escalated instead of forwarded.
func disallowedShape(value interface{}) bool {
	if value == nil {
		return false
	}

	switch reflect.TypeOf(value).Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return true
	default:
		return false
	}
}
