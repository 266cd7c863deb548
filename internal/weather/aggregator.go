// Package weather contains the aggregator that turns provider payloads into
// cached, deduplicated WeatherData snapshots for facility widgets.
package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/mehara-rothila/SportsBookSL-front-sub004/internal/domain"
	"github.com/mehara-rothila/SportsBookSL-front-sub004/internal/observability"
)

const (
	entryCoords = "coords"
	entryCity   = "city"

	outcomeSuccess = "success"
	outcomeError   = "error"
)

// Cache is the snapshot store injected by the composing application.
type Cache interface {
	Get(key string) (domain.WeatherData, bool)
	Put(key string, value domain.WeatherData)
}

// Publisher fans freshly fetched snapshots out to downstream consumers.
// A nil Publisher disables fan-out.
type Publisher interface {
	Publish(ctx context.Context, key string, data domain.WeatherData) error
}

// HealthChecker is implemented by providers that can be pinged cheaply.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Aggregator fetches current conditions and the multi-day forecast for a
// location, normalizes both payloads into one WeatherData snapshot, and
// memoizes the result in the injected cache. Concurrent first-access for
// the same key is coalesced: at most one upstream fetch pair is in flight
// per key, and later callers attach to the pending result.
type Aggregator struct {
	provider  domain.Provider
	cache     Cache
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool

	mu       sync.Mutex
	inflight map[string]*inflightFetch
}

// inflightFetch is a pending result other callers can wait on. data and err
// are written exactly once, before done is closed.
type inflightFetch struct {
	done chan struct{}
	data domain.WeatherData
	err  error
}

// New creates an Aggregator. publisher may be nil to disable snapshot fan-out.
func New(provider domain.Provider, cache Cache, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics) *Aggregator {
	return &Aggregator{
		provider:  provider,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		inflight:  make(map[string]*inflightFetch),
	}
}

// FetchByCoords returns the snapshot for a coordinate pair, from cache when
// possible. displayName, when non-empty, overrides the provider's city name.
func (a *Aggregator) FetchByCoords(ctx context.Context, lat, lon float64, displayName string) (domain.WeatherData, error) {
	if !domain.ValidCoords(lat, lon) {
		return domain.WeatherData{}, domain.ErrInvalidCoords
	}
	return a.fetch(ctx, entryCoords, domain.CoordKey(lat, lon), domain.ByCoords(lat, lon), displayName)
}

// FetchByCity returns the snapshot for a free-text city name, from cache
// when possible. A successful fetch also back-fills the coordinate-keyed
// entry when the provider disclosed coordinates for the name.
func (a *Aggregator) FetchByCity(ctx context.Context, name, displayName string) (domain.WeatherData, error) {
	key := domain.CityKey(name)
	if key == "" {
		return domain.WeatherData{}, errors.New("city name must not be empty")
	}
	return a.fetch(ctx, entryCity, key, domain.ByCity(name), displayName)
}

// CheckReadiness reports nil once a fetch has succeeded. Before the first
// success it falls back to pinging the provider, so a bad API key or an
// unreachable upstream fails the probe rather than idling as "ready".
func (a *Aggregator) CheckReadiness(ctx context.Context) error {
	if a.ready.Load() {
		return nil
	}
	if hc, ok := a.provider.(HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return errors.New("no successful fetch yet")
}

func (a *Aggregator) fetch(ctx context.Context, entry, key string, q domain.Query, displayName string) (domain.WeatherData, error) {
	a.mu.Lock()

	if data, ok := a.cache.Get(key); ok {
		a.mu.Unlock()
		a.metrics.CacheLookups.WithLabelValues("hit").Inc()
		a.metrics.FetchRequests.WithLabelValues(entry, outcomeSuccess).Inc()
		return data, nil
	}
	a.metrics.CacheLookups.WithLabelValues("miss").Inc()

	if pending, ok := a.inflight[key]; ok {
		a.mu.Unlock()
		a.metrics.InflightJoins.Inc()
		select {
		case <-pending.done:
			a.observeOutcome(entry, pending.err)
			return pending.data, pending.err
		case <-ctx.Done():
			return domain.WeatherData{}, ctx.Err()
		}
	}

	pending := &inflightFetch{done: make(chan struct{})}
	a.inflight[key] = pending
	a.mu.Unlock()

	data, err := a.fetchUpstream(ctx, key, q, displayName)
	pending.data, pending.err = data, err

	a.mu.Lock()
	delete(a.inflight, key)
	a.mu.Unlock()
	close(pending.done)

	a.observeOutcome(entry, err)
	return data, err
}

// fetchUpstream issues the current-conditions and forecast requests
// concurrently. Both must succeed; a failure on either side aborts the
// operation with no cache write, so the next demand retries the network.
func (a *Aggregator) fetchUpstream(ctx context.Context, key string, q domain.Query, displayName string) (domain.WeatherData, error) {
	var (
		wg      sync.WaitGroup
		obs     domain.Observation
		obsErr  error
		samples []domain.ForecastSample
		fcErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		obs, obsErr = a.provider.CurrentConditions(ctx, q)
	}()
	go func() {
		defer wg.Done()
		samples, fcErr = a.provider.Forecast(ctx, q)
	}()
	wg.Wait()

	if obsErr != nil {
		return domain.WeatherData{}, fmt.Errorf("fetch %q: %w", key, obsErr)
	}
	if fcErr != nil {
		return domain.WeatherData{}, fmt.Errorf("fetch %q: %w", key, fcErr)
	}

	data := domain.BuildWeatherData(obs, samples, displayName)

	a.cache.Put(key, data)
	if q.City != "" && obs.HasCoord {
		// Cross-populate so a later coordinate lookup for the same place
		// is served from cache.
		a.cache.Put(domain.CoordKey(obs.Coord.Lat, obs.Coord.Lon), data)
	}
	a.ready.Store(true)

	a.logger.Info("weather fetched",
		"key", key,
		"city", data.City,
		"daily_days", len(data.Daily),
		"hourly_steps", len(data.Hourly),
	)

	a.publish(ctx, key, data)
	return data, nil
}

// publish fans the snapshot out to the configured topic. Failures are
// logged and counted but never propagated: the caller's snapshot is valid
// regardless of broker health.
func (a *Aggregator) publish(ctx context.Context, key string, data domain.WeatherData) {
	if a.publisher == nil {
		return
	}
	if err := a.publisher.Publish(ctx, key, data); err != nil {
		a.metrics.PublishErrors.Inc()
		a.logger.Warn("snapshot publish failed", "key", key, "error", err)
		return
	}
	a.metrics.SnapshotsPublished.Inc()
}

func (a *Aggregator) observeOutcome(entry string, err error) {
	if err != nil {
		a.metrics.FetchRequests.WithLabelValues(entry, outcomeError).Inc()
		return
	}
	a.metrics.FetchRequests.WithLabelValues(entry, outcomeSuccess).Inc()
}
