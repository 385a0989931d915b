package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/2beens/sportfrei/pkg"

	"github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LoggerSetupParams struct {
	LogFileName      string
	LogToStdout      bool
	LogLevel         string
	LogFormatJSON    bool
	Environment      string
	SentryEnabled    bool
	SentryDSN        string
	SentryServerName string
}

// Setup configures the global logrus logger. Close the returned outputs
// before exiting, to flush sentry and the log file.
func Setup(params LoggerSetupParams) *Outputs {
	if params.LogFormatJSON {
		log.SetFormatter(&log.JSONFormatter{})
	}

	sentryEnabled := false
	if params.SentryEnabled && params.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Environment: params.Environment,
			Dsn:         params.SentryDSN,
			ServerName:  params.SentryServerName,
		})
		if err != nil {
			log.Errorf("sentry.Init: %s", err)
		} else {
			log.AddHook(NewSentryHook([]log.Level{
				log.PanicLevel,
				log.FatalLevel,
				log.ErrorLevel,
			}))
			sentryEnabled = true
			log.Infoln("sentry set up successfully")
		}
	}

	log.SetLevel(GetLevel(params.LogLevel))

	if params.LogFileName == "" {
		log.SetOutput(os.Stdout)
		log.Println("writing logs only to STDOUT")
		return &Outputs{sentryEnabled: sentryEnabled}
	}

	if !strings.HasSuffix(params.LogFileName, ".log") {
		params.LogFileName += ".log"
	}

	lumberJackLogger := &lumberjack.Logger{
		Filename:   params.LogFileName,
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		LocalTime:  true,
		Compress:   true,
	}

	if params.LogToStdout {
		log.SetOutput(pkg.NewCombinedWriter(os.Stdout, lumberJackLogger))
		log.Println("writing logs to file and STDOUT")
	} else {
		log.SetOutput(lumberJackLogger)
	}

	return &Outputs{
		file:          lumberJackLogger,
		sentryEnabled: sentryEnabled,
	}
}

func GetLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	case "info":
		return log.InfoLevel
	case "trace":
		return log.TraceLevel
	case "warn", "warning":
		return log.WarnLevel
	default:
		return log.InfoLevel
	}
}

// Outputs keeps track of where logs are written, so the TUI can take the
// terminal over and the program can close the log file on exit.
type Outputs struct {
	file          io.WriteCloser
	sentryEnabled bool
}

// MuteStdout keeps logs away from the terminal while the TUI owns it.
// Logs keep going to the log file, if there is one.
func (o *Outputs) MuteStdout() {
	if o.file == nil {
		log.SetOutput(io.Discard)
		return
	}
	log.SetOutput(o.file)
}

func (o *Outputs) Close() error {
	if o.sentryEnabled {
		sentry.Flush(2 * time.Second)
	}
	if o.file == nil {
		return nil
	}
	return o.file.Close()
}
