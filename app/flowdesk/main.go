package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"runtime"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/jrazmi/flowdesk/app/flowdesk/api"
	"github.com/jrazmi/flowdesk/app/flowdesk/config"
	"github.com/jrazmi/flowdesk/infrastructure/web"
	"github.com/jrazmi/flowdesk/sdk/environment"
	"github.com/jrazmi/flowdesk/sdk/logger"
	"github.com/jrazmi/flowdesk/sdk/telemetry"
)

var build = "develop"
var appName = "FLOWDESK"

func main() {
	if err := environment.LoadEnv(); err != nil {
		fmt.Println("loading .env:", err)
		os.Exit(1)
	}

	path := environment.GetNamespaceEnvOrDefault(appName, "CONFIG_FILE", "flowdesk.toml")
	settings, err := config.Load(appName, path)
	if err != nil {
		fmt.Println("loading config:", err)
		os.Exit(1)
	}

	tel := telemetry.NewTelemetry()
	log := logger.New(settings.Log,
		logger.WithService(appName),
		logger.WithTraceID(tel.GetTraceID),
	)

	ctx := context.Background()
	os.Exit(run(ctx, log, tel, settings))
}

func run(ctx context.Context, log *logger.Logger, tel telemetry.Telemetry, settings config.Settings) int {
	log.InfoContext(ctx, "startup", "GOMAXPROCS", runtime.GOMAXPROCS(0), "build", build,
		"store", settings.Backends.Store, "auth", settings.Backends.Auth)

	stack, err := config.Open(ctx, log, settings)
	if err != nil {
		log.ErrorContext(ctx, "startup", "err", err)
		return 1
	}

	handler := api.NewHandler(api.Config{
		Build:     build,
		Log:       log,
		Telemetry: tel,
		Settings:  settings,
		Stack:     stack,
	})

	server := web.NewServer(settings.Server,
		web.WithHandler(handler),
		web.WithErrorLog(logger.NewStdLogger(log, slog.LevelError)),
	)

	serverErrors := make(chan error, 1)
	go func() {
		log.InfoContext(ctx, "startup", "status", "api router started", "host", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	wait := gfshutdown.GracefulShutdown(ctx, server.Config.ShutdownTimeout, map[string]gfshutdown.Operation{
		"http-server": func(ctx context.Context) error {
			log.InfoContext(ctx, "shutdown", "status", "shutdown started")
			return server.Shutdown(ctx)
		},
	})

	code := 0
	select {
	case err := <-serverErrors:
		log.ErrorContext(ctx, "server error", "err", err)
		code = 1
	case code = <-wait:
	}

	stack.Close(log)
	log.InfoContext(ctx, "shutdown", "status", "shutdown complete", "code", code)
	return code
}
