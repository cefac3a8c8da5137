package mid

import (
	"context"
	"net/http"

	"github.com/jrazmi/flowdesk/bridge/scaffolding/metrics"
	"github.com/jrazmi/flowdesk/infrastructure/web"
)

// Metrics updates program counters. Install it inside Errors and outside
// Panics so recovered panics are counted as 500s.
func Metrics() web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(ctx context.Context, r *http.Request) web.Encoder {
			ctx = metrics.Set(ctx)

			resp := next(ctx, r)

			n := metrics.AddRequests(ctx)
			if n%1000 == 0 {
				metrics.AddGoroutines(ctx)
			}

			status := statusOf(resp)
			metrics.AddResponse(ctx, status)
			if status >= http.StatusInternalServerError || isError(resp) != nil {
				metrics.AddErrors(ctx)
			}

			return resp
		}
	}
}
