// Package httpcontext bridges fasthttp's request context to the
// stdlib context.Context expected by the service layer.
package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	appLogger "github.com/halahlab/backend/pkg/logger"
)

const requestIDHeader = "X-Request-ID"

// Adapter derives deadline-carrying stdlib contexts from fasthttp
// requests. One adapter serves all handlers.
type Adapter struct {
	timeout time.Duration
}

func NewAdapter(timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Adapter{timeout: timeout}
}

// Attach returns a context bounded by the adapter's timeout, tagged
// with the request id. The id is echoed back on the response so
// clients and logs can be matched up.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	stdCtx, cancel := context.WithTimeout(context.Background(), a.timeout)

	reqID := requestID(ctx)
	stdCtx = appLogger.ContextWithRequestID(stdCtx, reqID)
	ctx.Response.Header.Set(requestIDHeader, reqID)

	return stdCtx, cancel
}

// requestID honours a caller-supplied id and mints one otherwise.
func requestID(ctx *fasthttp.RequestCtx) string {
	if ctx != nil {
		if header := strings.TrimSpace(string(ctx.Request.Header.Peek(requestIDHeader))); header != "" {
			return header
		}
	}
	return uuid.NewString()
}
