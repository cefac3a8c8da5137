// Package api wires the HTTP routes of the flowdesk server.
package api

import (
	"context"
	"expvar"
	"net/http"
	"sync"

	"github.com/jrazmi/flowdesk/app/flowdesk/config"
	"github.com/jrazmi/flowdesk/bridge/repositories/authrepobridge"
	"github.com/jrazmi/flowdesk/bridge/repositories/tasksrepobridge"
	"github.com/jrazmi/flowdesk/bridge/scaffolding/mid"
	"github.com/jrazmi/flowdesk/infrastructure/web"
	"github.com/jrazmi/flowdesk/sdk/logger"
	"github.com/jrazmi/flowdesk/sdk/telemetry"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Config is what the routes need from the running application.
type Config struct {
	Build     string
	Log       *logger.Logger
	Telemetry telemetry.Telemetry
	Settings  config.Settings
	Stack     *config.Stack
}

// NewHandler builds the root handler: global middleware, the versioned API,
// health and expvar.
func NewHandler(cfg Config) http.Handler {
	wh := web.NewWebHandler(cfg.Settings.Web,
		web.WithLogging(cfg.Log),
		web.WithTelemetry(cfg.Telemetry),
		web.WithGlobalMiddleware(
			mid.Logger(cfg.Log),
			mid.Errors(cfg.Log),
			mid.Metrics(),
			mid.Panics(),
		),
	)

	authenticate := mid.Authenticate(mid.AuthConfig{
		Log:        cfg.Log,
		Sessions:   cfg.Stack.Sessions,
		Identities: cfg.Stack.Auth,
		JWTSecret:  cfg.Stack.JWTSecret,
	})

	// Load has already rejected malformed entries.
	proxies, _ := mid.ParseTrustedProxies(cfg.Settings.Auth.TrustedProxies)
	limiter := mid.NewRateLimiter(
		rate.Limit(cfg.Settings.Auth.RatePerSec),
		cfg.Settings.Auth.RateBurst,
		mid.WithTrustedProxies(proxies...),
	)

	v1 := wh.Group(cfg.Settings.Server.APIRoute)

	authrepobridge.AddHttpRoutes(v1, authrepobridge.Config{
		Log:          cfg.Log,
		Repository:   cfg.Stack.Auth,
		Sessions:     cfg.Stack.Sessions,
		Authenticate: authenticate,
		RateLimit:    mid.RateLimit(limiter),
	})

	tasksrepobridge.AddHttpRoutes(v1.Group("", authenticate), tasksrepobridge.Config{
		Log:        cfg.Log,
		Repository: cfg.Stack.Tasks,
	})

	h := health{build: cfg.Build, checks: cfg.Stack.Checks}
	wh.GET("/health", h.check)
	wh.HandleRaw("GET /debug/vars", expvar.Handler())

	return wh
}

type health struct {
	build  string
	checks map[string]config.Check
}

type healthStatus struct {
	Status string            `json:"status"`
	Build  string            `json:"build"`
	Checks map[string]string `json:"checks"`
}

func (h health) check(ctx context.Context, r *http.Request) web.Encoder {
	out := healthStatus{
		Status: "ok",
		Build:  h.build,
		Checks: make(map[string]string, len(h.checks)),
	}
	status := http.StatusOK

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	for name, check := range h.checks {
		g.Go(func() error {
			result := "ok"
			if err := check(ctx); err != nil {
				result = err.Error()
			}

			mu.Lock()
			defer mu.Unlock()
			out.Checks[name] = result
			if result != "ok" {
				out.Status = "degraded"
				status = http.StatusServiceUnavailable
			}
			return nil
		})
	}
	_ = g.Wait()

	return web.NewJSONResponseWithStatus(out, status)
}
