package types

import (
	"github.com/valyala/fasthttp"

	"github.com/saiset-co/sai-pipeline/utils"
)

const RouteParamsKey = "route_params"

// RequestCtx wraps the fasthttp request/response pair and tracks whether any
// response output has been initiated through it. The orchestrator consults
// Responded() after every stage; user code must write through the Respond*
// helpers (or Error) for short-circuit detection to work.
type RequestCtx struct {
	*fasthttp.RequestCtx
	responded   bool
	bodyValue   interface{}
	queryValue  interface{}
	paramsValue interface{}
}

func NewRequestCtx(ctx *fasthttp.RequestCtx) *RequestCtx {
	return &RequestCtx{RequestCtx: ctx}
}

func (c *RequestCtx) Responded() bool {
	return c.responded
}

func (c *RequestCtx) Respond(status int, contentType string, body []byte) {
	c.responded = true
	c.SetStatusCode(status)
	c.SetContentType(contentType)
	c.SetBody(body)
}

func (c *RequestCtx) RespondJSON(status int, value interface{}) error {
	data, err := utils.Marshal(value)
	if err != nil {
		return WrapError(err, "failed to marshal response")
	}
	c.Respond(status, "application/json", data)
	return nil
}

func (c *RequestCtx) Error(msg string, statusCode int) {
	c.responded = true
	c.RequestCtx.Error(msg, statusCode)
}

func (c *RequestCtx) SetResponseHeader(key, value string) {
	c.Response.Header.Set(key, value)
}

// QueryMap flattens the query string into a map; repeated keys keep the last
// value.
func (c *RequestCtx) QueryMap() map[string]string {
	query := make(map[string]string, c.QueryArgs().Len())
	c.QueryArgs().VisitAll(func(key, value []byte) {
		query[string(key)] = string(value)
	})
	return query
}

func (c *RequestCtx) ParamsMap() map[string]string {
	if params, ok := c.UserValue(RouteParamsKey).(map[string]string); ok {
		return params
	}
	return map[string]string{}
}

// RawValue returns the untrusted input for a channel: body bytes, or the
// query/params maps.
func (c *RequestCtx) RawValue(channel Channel) interface{} {
	switch channel {
	case ChannelBody:
		return c.PostBody()
	case ChannelQuery:
		return c.QueryMap()
	case ChannelParams:
		return c.ParamsMap()
	}
	return nil
}

// ChannelValue returns the validated value for a channel, falling back to the
// raw input when no validation step has run yet.
func (c *RequestCtx) ChannelValue(channel Channel) interface{} {
	switch channel {
	case ChannelBody:
		if c.bodyValue != nil {
			return c.bodyValue
		}
	case ChannelQuery:
		if c.queryValue != nil {
			return c.queryValue
		}
	case ChannelParams:
		if c.paramsValue != nil {
			return c.paramsValue
		}
	}
	return c.RawValue(channel)
}

func (c *RequestCtx) SetChannelValue(channel Channel, value interface{}) {
	switch channel {
	case ChannelBody:
		c.bodyValue = value
	case ChannelQuery:
		c.queryValue = value
	case ChannelParams:
		c.paramsValue = value
	}
}

func (c *RequestCtx) BodyValue() interface{} {
	return c.ChannelValue(ChannelBody)
}

func (c *RequestCtx) QueryValue() interface{} {
	return c.ChannelValue(ChannelQuery)
}

func (c *RequestCtx) ParamsValue() interface{} {
	return c.ChannelValue(ChannelParams)
}
