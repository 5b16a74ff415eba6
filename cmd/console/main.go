package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Al1374525/Cyber-Security-Awareness-App/internal/app"
	"github.com/Al1374525/Cyber-Security-Awareness-App/internal/config"
	"github.com/Al1374525/Cyber-Security-Awareness-App/internal/logger"
)

// ConsoleConfig holds settings that only the console reads. Everything else
// comes from config.Load.
type ConsoleConfig struct {
	// APIBaseURL plays against a running API instead of an in-process simulator.
	APIBaseURL string        `env:"API_BASE_URL"`
	LogFile    string        `env:"CONSOLE_LOG_FILE"`
	Timeout    time.Duration `env:"CONSOLE_TIMEOUT" envDefault:"45s"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	consoleCfg, err := env.ParseAs[ConsoleConfig]()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid console configuration: %v\n", err)
		os.Exit(1)
	}

	var logOut io.Writer = io.Discard
	if consoleCfg.LogFile != "" {
		f, err := os.OpenFile(consoleCfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not open log file: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			_ = f.Close()
		}()
		logOut = f
	}
	log := logger.SetupWriter(cfg, logOut)

	backend, err := newBackend(cfg, consoleCfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(NewConsoleUI(backend, consoleCfg.Timeout),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

func newBackend(cfg *config.Config, consoleCfg ConsoleConfig, log *slog.Logger) (Backend, error) {
	if consoleCfg.APIBaseURL != "" {
		client := &http.Client{Timeout: consoleCfg.Timeout}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if !testConnection(ctx, client, consoleCfg.APIBaseURL) {
			return nil, fmt.Errorf("could not connect to API at %s. Start it with: go run ./cmd/api", consoleCfg.APIBaseURL)
		}
		log.Info("Using remote simulator", "base_url", consoleCfg.APIBaseURL)
		return newRemoteBackend(client, consoleCfg.APIBaseURL), nil
	}

	store, err := app.LoadStore(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load scenarios: %w", err)
	}
	return newLocalBackend(app.NewSimulator(cfg, store, log)), nil
}
