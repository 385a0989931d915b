package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/2beens/sportfrei/internal/activity"
	"github.com/2beens/sportfrei/internal/telemetry/metrics"
	"github.com/2beens/sportfrei/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/oauth2"
)

const megabyte = 1024 * 1024

// Client talks to the Strava v3 API. Responses are cached in memory for
// cacheTTL, so redraws and view switches do not hit the rate limit.
// It is safe for concurrent use.
type Client struct {
	apiUrl     string
	httpClient *http.Client
	cache      *freecache.Cache
	cacheTTL   time.Duration
	metrics    *metrics.Manager
}

type NewClientParams struct {
	ApiUrl      string
	TokenSource oauth2.TokenSource
	CacheSizeMB int
	CacheTTL    time.Duration
	Timeout     time.Duration
	// Metrics is optional, nil records into a private registry.
	Metrics *metrics.Manager
}

func NewClient(ctx context.Context, params NewClientParams) *Client {
	cacheSizeMB := params.CacheSizeMB
	if cacheSizeMB <= 0 {
		cacheSizeMB = 1
	}

	httpClient := oauth2.NewClient(withTracedHttpClient(ctx, params.Timeout), params.TokenSource)
	httpClient.Timeout = params.Timeout

	metricsManager := params.Metrics
	if metricsManager == nil {
		metricsManager = metrics.NewManager(metrics.Namespace, metrics.Subsystem, prometheus.NewRegistry())
	}

	return &Client{
		apiUrl:     params.ApiUrl,
		httpClient: httpClient,
		cache:      freecache.NewCache(cacheSizeMB * megabyte),
		cacheTTL:   params.CacheTTL,
		metrics:    metricsManager,
	}
}

// GetAthlete returns the authenticated athlete.
func (c *Client) GetAthlete(ctx context.Context) (_ *activity.Athlete, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "strava.client.getAthlete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	athlete := &activity.Athlete{}
	if err := c.get(ctx, "athlete", "/athlete", nil, athlete); err != nil {
		return nil, fmt.Errorf("get athlete: %w", err)
	}
	return athlete, nil
}

// GetAthleteStats returns the stats summary of the given athlete.
func (c *Client) GetAthleteStats(ctx context.Context, athleteID int64) (_ *activity.AthleteStats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "strava.client.getAthleteStats")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	span.SetAttributes(attribute.Int64("athlete_id", athleteID))

	stats := &activity.AthleteStats{}
	path := fmt.Sprintf("/athletes/%d/stats", athleteID)
	if err := c.get(ctx, "athlete_stats", path, nil, stats); err != nil {
		return nil, fmt.Errorf("get athlete stats: %w", err)
	}
	return stats, nil
}

// GetActivities returns one page (1-based) of the athlete's activities,
// newest first.
func (c *Client) GetActivities(ctx context.Context, page, perPage int) (_ []activity.Activity, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "strava.client.getActivities")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	span.SetAttributes(attribute.Int("page", page), attribute.Int("per_page", perPage))

	if page < 1 {
		return nil, fmt.Errorf("page must be greater than 0")
	}
	if perPage < 1 {
		return nil, fmt.Errorf("per page must be greater than 0")
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(perPage))

	var activities []activity.Activity
	if err := c.get(ctx, "activities", "/athlete/activities", query, &activities); err != nil {
		return nil, fmt.Errorf("get activities page %d: %w", page, err)
	}

	c.metrics.CounterActivitiesFetched.Add(float64(len(activities)))
	log.Debugf("strava: got %d activities (page %d, per page %d)", len(activities), page, perPage)
	return activities, nil
}

// GetAllActivities pages through the athlete's activities until a page comes
// back short. maxPages > 0 stops earlier.
func (c *Client) GetAllActivities(ctx context.Context, perPage, maxPages int) ([]activity.Activity, error) {
	var all []activity.Activity
	for page := 1; maxPages <= 0 || page <= maxPages; page++ {
		activities, err := c.GetActivities(ctx, page, perPage)
		if err != nil {
			return all, err
		}
		all = append(all, activities...)
		if len(activities) < perPage {
			break
		}
	}
	return all, nil
}

// ClearCache drops all cached responses, forcing the next calls to go to
// the API.
func (c *Client) ClearCache() {
	c.cache.Clear()
}

// get fetches path into out. name labels the request metrics.
func (c *Client) get(ctx context.Context, name, path string, query url.Values, out any) error {
	endpoint := c.apiUrl + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	cacheKey := []byte(endpoint)
	if cached, err := c.cache.Get(cacheKey); err == nil {
		if err := json.Unmarshal(cached, out); err == nil {
			log.Tracef("strava: cache hit for %s", path)
			c.metrics.CounterCacheHits.Inc()
			return nil
		} else {
			log.Errorf("strava: unmarshal cached %s: %s", path, err)
		}
	}

	c.metrics.CounterCacheMisses.Inc()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.HistogramApiRequestDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.CounterApiRequests.WithLabelValues(name, "error").Inc()
		return fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()
	c.metrics.CounterApiRequests.WithLabelValues(name, strconv.Itoa(resp.StatusCode)).Inc()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, respBytes)
	}

	if err := json.Unmarshal(respBytes, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	if c.cacheTTL > 0 {
		if err := c.cache.Set(cacheKey, respBytes, int(c.cacheTTL.Seconds())); err != nil {
			log.Warnf("strava: cache %s: %s", path, err)
		}
	}

	return nil
}
