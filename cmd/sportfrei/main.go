package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/2beens/sportfrei/internal/app"
	"github.com/2beens/sportfrei/internal/config"
	"github.com/2beens/sportfrei/internal/credentials"
	"github.com/2beens/sportfrei/internal/dashboard"
	"github.com/2beens/sportfrei/internal/logging"
	"github.com/2beens/sportfrei/internal/strava"
	"github.com/2beens/sportfrei/internal/tui"
	"github.com/2beens/sportfrei/pkg"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	credentialsPath := flag.String("credentials", "", "path for the credentials file (default: user config dir)")
	flag.Parse()

	cfg, err := loadConfig(*env, *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %s\n", err)
		os.Exit(1)
	}

	logOutputs := logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        os.Getenv(app.EnvSentryDSN),
		SentryServerName: "sportfrei",
	})
	closeLogs := func() {
		if err := logOutputs.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "close logs: %s\n", err)
		}
	}
	// log.Fatal skips deferred calls
	log.RegisterExitHandler(closeLogs)
	defer closeLogs()

	log.Debugf("running in [%s] environment", cfg.Environment)

	store, err := openStore(cfg, *credentialsPath)
	if err != nil {
		log.Fatalf("credentials store: %s", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	metricsManager := app.StartMetrics(ctx, cfg.MetricsAddr)

	client, err := app.Connect(ctx, app.ConnectParams{
		Config:      cfg,
		Store:       store,
		In:          os.Stdin,
		Out:         os.Stdout,
		OpenBrowser: app.OpenBrowser,
		Metrics:     metricsManager,
	})
	if err != nil {
		log.Fatalf("connect to strava: %s", err)
	}

	if _, err := client.GetAthlete(ctx); err != nil {
		if errors.Is(err, strava.ErrUnauthorized) {
			if err := app.ForgetRefreshToken(store); err != nil {
				log.Errorf("forget refresh token: %s", err)
			}
			log.Fatalf("strava rejected the saved authorization, run sportfrei again to re-authorize: %s", err)
		}
		log.Fatalf("get athlete: %s", err)
	}

	model := tui.New(ctx, tui.Params{
		Source: client,
		Options: dashboard.Options{
			RecentWindowDays: cfg.RecentWindowDays,
			ExactPrevMonth:   cfg.ExactPrevMonth,
		},
	})

	// the terminal belongs to the UI from here on
	logOutputs.MuteStdout()

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) && !errors.Is(err, tea.ErrInterrupted) {
		log.Errorf("run ui: %s", err)
		fmt.Fprintf(os.Stderr, "sportfrei: %s\n", err)
		return
	}

	log.Debugln("bye")
}

func loadConfig(env, configPath string) (*config.Config, error) {
	exists, err := pkg.PathExists(configPath, false)
	if err != nil {
		return nil, err
	}

	var cfg *config.Config
	if exists {
		cfg, err = config.Load(env, configPath)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.Default()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openStore(cfg *config.Config, flagPath string) (*credentials.Store, error) {
	path := flagPath
	if path == "" {
		path = cfg.CredentialsPath
	}
	if path == "" {
		defaultPath, err := credentials.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}
	return credentials.NewStore(path), nil
}
