package logging

import (
	"errors"

	"github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
)

var logrusToSentryLevel = map[log.Level]sentry.Level{
	log.PanicLevel: sentry.LevelFatal,
	log.FatalLevel: sentry.LevelFatal,
	log.ErrorLevel: sentry.LevelError,
	log.WarnLevel:  sentry.LevelWarning,
	log.InfoLevel:  sentry.LevelInfo,
	log.DebugLevel: sentry.LevelDebug,
	log.TraceLevel: sentry.LevelDebug,
}

// SentryHook forwards logrus entries of the given levels to sentry.
type SentryHook struct {
	levels []log.Level
	hub    *sentry.Hub
}

var _ log.Hook = (*SentryHook)(nil)

func NewSentryHook(levels []log.Level) *SentryHook {
	return &SentryHook{
		levels: levels,
		hub:    sentry.CurrentHub(),
	}
}

func (h *SentryHook) Levels() []log.Level {
	return h.levels
}

func (h *SentryHook) Fire(entry *log.Entry) error {
	event := sentryEventFromEntry(entry)
	if h.hub.CaptureEvent(event) == nil {
		return errors.New("sentry event not captured")
	}
	return nil
}

func sentryEventFromEntry(entry *log.Entry) *sentry.Event {
	event := sentry.NewEvent()
	event.Level = logrusToSentryLevel[entry.Level]
	event.Message = entry.Message
	event.Timestamp = entry.Time
	event.Logger = "logrus"

	for k, v := range entry.Data {
		if k == log.ErrorKey {
			if err, ok := v.(error); ok {
				event.Exception = append(event.Exception, sentry.Exception{
					Type:  "error",
					Value: err.Error(),
				})
				continue
			}
		}
		event.Extra[k] = v
	}

	return event
}
