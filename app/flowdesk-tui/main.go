package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jrazmi/flowdesk/app/flowdesk-tui/ui"
	"github.com/jrazmi/flowdesk/app/flowdesk/config"
	"github.com/jrazmi/flowdesk/sdk/environment"
	"github.com/jrazmi/flowdesk/sdk/logger"
)

var appName = "FLOWDESK"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "flowdesk-tui:", err)
		os.Exit(1)
	}
}

func run() error {
	if err := environment.LoadEnv(); err != nil {
		return fmt.Errorf("loading .env: %w", err)
	}

	path := environment.GetNamespaceEnvOrDefault(appName, "CONFIG_FILE", "flowdesk.toml")
	settings, err := config.Load(appName, path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// The terminal belongs to the UI; logs go to a file when one is named.
	logPath := environment.GetNamespaceEnvOrDefault(appName, "TUI_LOG_FILE", "")
	log := logger.NewDiscard()
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		log = logger.New(settings.Log, logger.WithOutput(f), logger.WithService(appName+"_TUI"))
	}

	ctx := context.Background()
	stack, err := config.Open(ctx, log, settings)
	if err != nil {
		return err
	}
	defer stack.Close(log)

	model := ui.New(ctx, ui.Config{
		Log:   log,
		Auth:  stack.Auth,
		Tasks: stack.Tasks,
	})

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return err
	}

	if session, ok := model.Session(); ok {
		signOutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := stack.Auth.SignOut(signOutCtx, session.AccessToken); err != nil {
			log.WarnContext(ctx, "sign out", "err", err)
		}
	}
	return nil
}
