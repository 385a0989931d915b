package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/2beens/sportfrei/internal/activity"
	"github.com/2beens/sportfrei/internal/app"
	"github.com/2beens/sportfrei/internal/config"
	"github.com/2beens/sportfrei/internal/credentials"
	"github.com/2beens/sportfrei/internal/dashboard"
	"github.com/2beens/sportfrei/internal/logging"
	"github.com/2beens/sportfrei/pkg"

	log "github.com/sirupsen/logrus"
)

type metricReport struct {
	Current  string `json:"current"`
	Baseline string `json:"baseline"`
	Extra    string `json:"extra,omitempty"`
	Trend    string `json:"trend"`
}

type report struct {
	Athlete    string       `json:"athlete"`
	Activities int          `json:"activities"`
	At         time.Time    `json:"at"`
	Distance   metricReport `json:"distance"`
	Pace       metricReport `json:"pace"`
	Count      metricReport `json:"count"`
}

type runParams struct {
	Config          *config.Config
	CredentialsPath string
	JSON            bool
	MaxPages        int
	// In and Prompt serve the client key prompt and the authorization link.
	In     io.Reader
	Prompt io.Writer
	Out    io.Writer
}

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	credentialsPath := flag.String("credentials", "", "path for the credentials file (default: user config dir)")
	asJSON := flag.Bool("json", false, "print the metrics as JSON")
	maxPages := flag.Int("max-pages", 0, "stop after this many activity pages (0: all)")
	flag.Parse()

	cfg := config.Default()
	if exists, _ := pkg.PathExists(*configPath, false); exists {
		loaded, err := config.Load(*env, *configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %s\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %s\n", err)
		os.Exit(1)
	}

	// stdout is for the report, logs only go to the file
	logOutputs := logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.LogsPath,
		LogLevel:      cfg.LogLevel,
		Environment:   cfg.Environment,
		SentryEnabled: cfg.SentryEnabled,
		SentryDSN:     os.Getenv(app.EnvSentryDSN),
	})
	logOutputs.MuteStdout()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, runParams{
		Config:          cfg,
		CredentialsPath: *credentialsPath,
		JSON:            *asJSON,
		MaxPages:        *maxPages,
		In:              os.Stdin,
		Prompt:          os.Stderr,
		Out:             os.Stdout,
	})
	cancel()

	if err != nil {
		log.Errorf("sportfrei_stats: %s", err)
		fmt.Fprintf(os.Stderr, "sportfrei_stats: %s\n", err)
	}
	if closeErr := logOutputs.Close(); closeErr != nil {
		fmt.Fprintf(os.Stderr, "close logs: %s\n", closeErr)
	}
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, params runParams) error {
	cfg := params.Config

	path := params.CredentialsPath
	if path == "" {
		path = cfg.CredentialsPath
	}
	if path == "" {
		defaultPath, err := credentials.DefaultPath()
		if err != nil {
			return fmt.Errorf("credentials path: %w", err)
		}
		path = defaultPath
	}

	metricsManager := app.StartMetrics(ctx, cfg.MetricsAddr)

	client, err := app.Connect(ctx, app.ConnectParams{
		Config:      cfg,
		Store:       credentials.NewStore(path),
		In:          params.In,
		Out:         params.Prompt,
		OpenBrowser: app.OpenBrowser,
		Metrics:     metricsManager,
	})
	if err != nil {
		return fmt.Errorf("connect to strava: %w", err)
	}

	athlete, err := client.GetAthlete(ctx)
	if err != nil {
		return fmt.Errorf("get athlete: %w", err)
	}
	stats, err := client.GetAthleteStats(ctx, athlete.ID)
	if err != nil {
		log.Warnf("get athlete stats: %s", err)
		stats = nil
	}
	activities, err := client.GetAllActivities(ctx, cfg.ActivitiesPerPage, params.MaxPages)
	if err != nil {
		return fmt.Errorf("get activities: %w", err)
	}

	snap := dashboard.Snapshot{
		Activities: activities,
		Stats:      stats,
		Athlete:    athlete,
	}
	opts := dashboard.Options{
		RecentWindowDays: cfg.RecentWindowDays,
		ExactPrevMonth:   cfg.ExactPrevMonth,
	}
	r := buildReport(snap, dashboard.LocalNow(time.Now()), opts)

	if params.JSON {
		enc := json.NewEncoder(params.Out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		return nil
	}
	printReport(params.Out, r)
	return nil
}

func buildReport(snap dashboard.Snapshot, now time.Time, opts dashboard.Options) report {
	metrics := dashboard.Compute(snap, now, opts)
	return report{
		Athlete:    athleteName(snap.Athlete),
		Activities: len(snap.Activities),
		At:         now,
		Distance:   toMetricReport(metrics.Distance.Pair()),
		Pace:       toMetricReport(metrics.Pace.Pair()),
		Count:      toMetricReport(metrics.Count.Pair()),
	}
}

func toMetricReport(p dashboard.Pair) metricReport {
	return metricReport{
		Current:  p.Current,
		Baseline: p.Baseline,
		Extra:    p.Extra,
		Trend:    p.Trend.String(),
	}
}

func athleteName(a *activity.Athlete) string {
	if a == nil || a.FirstName == "" {
		return "Athlete"
	}
	return a.FirstName
}

func printReport(w io.Writer, r report) {
	_, _ = fmt.Fprintf(w, "%s, %d activities\n\n", r.Athlete, r.Activities)
	printMetric(w, "Biggest Distance", r.Distance)
	printMetric(w, dashboard.TitleBestPace, r.Pace)
	printMetric(w, dashboard.TitleThisMonth, r.Count)
}

func printMetric(w io.Writer, title string, m metricReport) {
	_, _ = fmt.Fprintf(w, "%-17s %s (%s, vs %s)", title+":", m.Current, m.Trend, m.Baseline)
	if m.Extra != "" {
		_, _ = fmt.Fprintf(w, " [%s]", m.Extra)
	}
	_, _ = fmt.Fprintln(w)
}
