package handlers

import (
	"github.com/valyala/fasthttp"
)

// Response is the complete response description a terminal handler can return
// instead of a bare payload: status, body, optional headers and envelope
// metadata. The default success callback recognizes it structurally and emits
// it as-is rather than wrapping it at 200.
type Response struct {
	Status  int                    `json:"status"`
	Body    interface{}            `json:"body"`
	Headers map[string]string      `json:"headers,omitempty"`
	Meta    map[string]interface{} `json:"meta,omitempty"`
}

func NewResponse(status int, body interface{}) *Response {
	return &Response{Status: status, Body: body}
}

func (r *Response) WithHeader(key, value string) *Response {
	if r.Headers == nil {
		r.Headers = make(map[string]string, 4)
	}
	r.Headers[key] = value
	return r
}

func (r *Response) WithMeta(key string, value interface{}) *Response {
	if r.Meta == nil {
		r.Meta = make(map[string]interface{}, 4)
	}
	r.Meta[key] = value
	return r
}

func OK(body interface{}) *Response {
	return NewResponse(fasthttp.StatusOK, body)
}

func Created(body interface{}) *Response {
	return NewResponse(fasthttp.StatusCreated, body)
}

func Accepted(body interface{}) *Response {
	return NewResponse(fasthttp.StatusAccepted, body)
}

func NoContent() *Response {
	return NewResponse(fasthttp.StatusNoContent, nil)
}

func MovedPermanently(location string) *Response {
	return NewResponse(fasthttp.StatusMovedPermanently, nil).WithHeader(fasthttp.HeaderLocation, location)
}

func BadRequest(body interface{}) *Response {
	return NewResponse(fasthttp.StatusBadRequest, body)
}

func Unauthorized(body interface{}) *Response {
	return NewResponse(fasthttp.StatusUnauthorized, body)
}

func Forbidden(body interface{}) *Response {
	return NewResponse(fasthttp.StatusForbidden, body)
}

func NotFound(body interface{}) *Response {
	return NewResponse(fasthttp.StatusNotFound, body)
}

func Conflict(body interface{}) *Response {
	return NewResponse(fasthttp.StatusConflict, body)
}

func UnprocessableEntity(body interface{}) *Response {
	return NewResponse(fasthttp.StatusUnprocessableEntity, body)
}

func TooManyRequests(body interface{}) *Response {
	return NewResponse(fasthttp.StatusTooManyRequests, body)
}

func Internal(body interface{}) *Response {
	return NewResponse(fasthttp.StatusInternalServerError, body)
}

func ServiceUnavailable(body interface{}) *Response {
	return NewResponse(fasthttp.StatusServiceUnavailable, body)
}
