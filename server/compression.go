package server

import (
	"bytes"

	"github.com/andybalholm/brotli"
	"github.com/valyala/fasthttp"
)

const compressMinSize = 200

var (
	brEncoding   = []byte("br")
	gzipEncoding = []byte("gzip")
)

// Compress negotiates response encoding from Accept-Encoding,
// preferring brotli over gzip. Small bodies are left as is.
func Compress(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		next(ctx)

		body := ctx.Response.Body()
		if len(body) < compressMinSize {
			return
		}

		if len(ctx.Response.Header.Peek(fasthttp.HeaderContentEncoding)) > 0 {
			return
		}

		accept := ctx.Request.Header.Peek(fasthttp.HeaderAcceptEncoding)

		switch {
		case bytes.Contains(accept, brEncoding):
			var buf bytes.Buffer
			w := brotli.NewWriterLevel(&buf, brotli.DefaultCompression)
			if _, err := w.Write(body); err != nil {
				return
			}
			if err := w.Close(); err != nil {
				return
			}
			ctx.Response.SetBody(buf.Bytes())
			ctx.Response.Header.SetBytesV(fasthttp.HeaderContentEncoding, brEncoding)
		case bytes.Contains(accept, gzipEncoding):
			ctx.Response.SetBody(fasthttp.AppendGzipBytesLevel(nil, body, fasthttp.CompressDefaultCompression))
			ctx.Response.Header.SetBytesV(fasthttp.HeaderContentEncoding, gzipEncoding)
		}
	}
}
