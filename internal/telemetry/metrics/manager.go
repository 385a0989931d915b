package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	Namespace = "sportfrei"
	Subsystem = "strava"
)

type Manager struct {
	// counters
	CounterApiRequests       *prometheus.CounterVec
	CounterCacheHits         prometheus.Counter
	CounterCacheMisses       prometheus.Counter
	CounterActivitiesFetched prometheus.Counter
	CounterTokenRotations    prometheus.Counter

	// histograms
	HistogramApiRequestDuration *prometheus.HistogramVec
}

func NewTestManager() *Manager {
	return NewManager(Namespace, "test", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager(Namespace, "test", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterApiRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "api_requests",
		Help:      "The total number of requests sent to the strava api",
	}, []string{"endpoint", "status"})
	counterCacheHits := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "cache_hits",
		Help:      "The total number of api responses served from the cache",
	})
	counterCacheMisses := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "cache_misses",
		Help:      "The total number of api calls not found in the cache",
	})
	counterActivitiesFetched := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "activities_fetched",
		Help:      "The total number of activities received in activity pages",
	})
	counterTokenRotations := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "token_rotations",
		Help:      "Number of times strava handed out a new refresh token",
	})

	histogramApiRequestDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "api_request_duration_seconds",
		Help:      "Histogram of strava api response time in seconds",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"endpoint"})

	return &Manager{
		CounterApiRequests:          counterApiRequests,
		CounterCacheHits:            counterCacheHits,
		CounterCacheMisses:          counterCacheMisses,
		CounterActivitiesFetched:    counterActivitiesFetched,
		CounterTokenRotations:       counterTokenRotations,
		HistogramApiRequestDuration: histogramApiRequestDuration,
	}
}
