package weather

import (
	"context"
	"io"
	"log/slog"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mehara-rothila/SportsBookSL-front-sub004/internal/cache"
	"github.com/mehara-rothila/SportsBookSL-front-sub004/internal/domain"
	"github.com/mehara-rothila/SportsBookSL-front-sub004/internal/observability"
)

// stubProvider counts upstream calls and can fail or block on demand.
type stubProvider struct {
	mu            sync.Mutex
	currentCalls  int
	forecastCalls int

	obs         domain.Observation
	samples     []domain.ForecastSample
	currentErr  error
	forecastErr error

	// When set, CurrentConditions blocks until release is closed.
	release chan struct{}
}

func (p *stubProvider) CurrentConditions(_ context.Context, _ domain.Query) (domain.Observation, error) {
	p.mu.Lock()
	p.currentCalls++
	release := p.release
	p.mu.Unlock()

	if release != nil {
		<-release
	}
	if p.currentErr != nil {
		return domain.Observation{}, p.currentErr
	}
	return p.obs, nil
}

func (p *stubProvider) Forecast(_ context.Context, _ domain.Query) ([]domain.ForecastSample, error) {
	p.mu.Lock()
	p.forecastCalls++
	p.mu.Unlock()

	if p.forecastErr != nil {
		return nil, p.forecastErr
	}
	return p.samples, nil
}

func (p *stubProvider) calls() (int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentCalls, p.forecastCalls
}

func colomboObservation() domain.Observation {
	return domain.Observation{
		CityName: "Colombo",
		Coord:    domain.Coord{Lat: 6.9271, Lon: 79.8612},
		HasCoord: true,
		Temp:     29.5,
		Humidity: 78,
	}
}

func forecastSamples(t *testing.T) []domain.ForecastSample {
	t.Helper()
	base, err := time.Parse("2006-01-02", "2026-05-10")
	require.NoError(t, err)

	samples := make([]domain.ForecastSample, 0, 16)
	for i := 0; i < 16; i++ {
		samples = append(samples, domain.ForecastSample{
			Time: base.Add(time.Duration(i*3) * time.Hour),
			Temp: 25 + float64(i%4),
		})
	}
	return samples
}

func newTestAggregator(t *testing.T, provider domain.Provider) (*Aggregator, *cache.LRU) {
	t.Helper()
	snapshots := cache.New(16, 0)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(provider, snapshots, nil, logger, observability.NewMetricsForTesting()), snapshots
}

func TestFetchByCoords_CacheShortCircuit(t *testing.T) {
	provider := &stubProvider{obs: colomboObservation(), samples: forecastSamples(t)}
	agg, _ := newTestAggregator(t, provider)

	first, err := agg.FetchByCoords(context.Background(), 6.9271, 79.8612, "")
	require.NoError(t, err)

	second, err := agg.FetchByCoords(context.Background(), 6.9271, 79.8612, "")
	require.NoError(t, err)

	cur, fc := provider.calls()
	assert.Equal(t, 1, cur, "second fetch must not hit the network")
	assert.Equal(t, 1, fc)
	assert.Equal(t, first, second)
}

func TestFetchByCoords_SubPrecisionJitterSharesEntry(t *testing.T) {
	provider := &stubProvider{obs: colomboObservation(), samples: forecastSamples(t)}
	agg, _ := newTestAggregator(t, provider)

	_, err := agg.FetchByCoords(context.Background(), 6.9271, 79.8612, "")
	require.NoError(t, err)

	_, err = agg.FetchByCoords(context.Background(), 6.9271+1e-9, 79.8612, "")
	require.NoError(t, err)

	cur, fc := provider.calls()
	assert.Equal(t, 1, cur)
	assert.Equal(t, 1, fc)
}

func TestFetchByCity_CrossPopulatesCoordinateKey(t *testing.T) {
	provider := &stubProvider{obs: colomboObservation(), samples: forecastSamples(t)}
	agg, _ := newTestAggregator(t, provider)

	_, err := agg.FetchByCity(context.Background(), "Colombo", "")
	require.NoError(t, err)

	// The provider disclosed (6.9271, 79.8612); a coordinate fetch for the
	// same place must be served from cache.
	_, err = agg.FetchByCoords(context.Background(), 6.9271, 79.8612, "")
	require.NoError(t, err)

	cur, fc := provider.calls()
	assert.Equal(t, 1, cur, "coordinate fetch after city fetch should be a cache hit")
	assert.Equal(t, 1, fc)
}

func TestFetchByCity_NormalizedNameSharesEntry(t *testing.T) {
	provider := &stubProvider{obs: colomboObservation(), samples: forecastSamples(t)}
	agg, _ := newTestAggregator(t, provider)

	_, err := agg.FetchByCity(context.Background(), "  Colombo ", "")
	require.NoError(t, err)
	_, err = agg.FetchByCity(context.Background(), "COLOMBO", "")
	require.NoError(t, err)

	cur, _ := provider.calls()
	assert.Equal(t, 1, cur)
}

func TestFetch_FailurePropagatesWithoutCacheWrite(t *testing.T) {
	provider := &stubProvider{
		obs:        colomboObservation(),
		samples:    forecastSamples(t),
		currentErr: &domain.UpstreamError{Endpoint: "current", Status: 404, Body: "city not found"},
	}
	agg, snapshots := newTestAggregator(t, provider)

	_, err := agg.FetchByCoords(context.Background(), 6.9271, 79.8612, "")
	require.Error(t, err)

	var upstream *domain.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, 404, upstream.Status)
	assert.Equal(t, 0, snapshots.Len(), "failed fetches must not write cache entries")

	// The retried call attempts the network again rather than short-circuiting.
	provider.currentErr = nil
	_, err = agg.FetchByCoords(context.Background(), 6.9271, 79.8612, "")
	require.NoError(t, err)

	cur, _ := provider.calls()
	assert.Equal(t, 2, cur)
	assert.Equal(t, 1, snapshots.Len())
}

func TestFetch_ForecastFailureAbortsWholeOperation(t *testing.T) {
	provider := &stubProvider{
		obs:         colomboObservation(),
		forecastErr: &domain.UpstreamError{Endpoint: "forecast", Status: 500, Body: "oops"},
	}
	agg, snapshots := newTestAggregator(t, provider)

	_, err := agg.FetchByCoords(context.Background(), 6.9271, 79.8612, "")
	require.Error(t, err)
	assert.Equal(t, 0, snapshots.Len())
}

func TestFetchByCoords_RejectsNonFiniteCoords(t *testing.T) {
	provider := &stubProvider{}
	agg, _ := newTestAggregator(t, provider)

	_, err := agg.FetchByCoords(context.Background(), math.NaN(), 79.8612, "")
	require.ErrorIs(t, err, domain.ErrInvalidCoords)

	cur, fc := provider.calls()
	assert.Zero(t, cur)
	assert.Zero(t, fc)
}

func TestFetchByCity_RejectsEmptyName(t *testing.T) {
	agg, _ := newTestAggregator(t, &stubProvider{})
	_, err := agg.FetchByCity(context.Background(), "   ", "")
	require.Error(t, err)
}

func TestFetch_ConcurrentFirstAccessIsCoalesced(t *testing.T) {
	release := make(chan struct{})
	provider := &stubProvider{
		obs:     colomboObservation(),
		samples: forecastSamples(t),
		release: release,
	}
	agg, _ := newTestAggregator(t, provider)

	const callers = 5
	var wg sync.WaitGroup
	results := make([]domain.WeatherData, callers)
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			results[n], errs[n] = agg.FetchByCoords(context.Background(), 6.9271, 79.8612, "")
		}(i)
	}

	// Wait until the first caller is blocked inside the provider, then let
	// every caller proceed.
	require.Eventually(t, func() bool {
		cur, _ := provider.calls()
		return cur >= 1
	}, time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	cur, fc := provider.calls()
	assert.Equal(t, 1, cur, "concurrent first access must issue one upstream call pair")
	assert.Equal(t, 1, fc)
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0], results[i])
	}
}

func TestFetch_WaiterHonorsContextCancellation(t *testing.T) {
	release := make(chan struct{})
	provider := &stubProvider{
		obs:     colomboObservation(),
		samples: forecastSamples(t),
		release: release,
	}
	agg, _ := newTestAggregator(t, provider)

	go agg.FetchByCoords(context.Background(), 6.9271, 79.8612, "") //nolint:errcheck

	require.Eventually(t, func() bool {
		cur, _ := provider.calls()
		return cur >= 1
	}, time.Second, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := agg.FetchByCoords(ctx, 6.9271, 79.8612, "")
	require.ErrorIs(t, err, context.Canceled)

	close(release)
}

func TestFetch_DisplayNameOverrideIsCached(t *testing.T) {
	provider := &stubProvider{obs: colomboObservation(), samples: forecastSamples(t)}
	agg, _ := newTestAggregator(t, provider)

	data, err := agg.FetchByCoords(context.Background(), 6.9271, 79.8612, "Kettarama Stadium")
	require.NoError(t, err)
	assert.Equal(t, "Kettarama Stadium", data.City)
}

// recordingPublisher captures published snapshots.
type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, key string, _ domain.WeatherData) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.keys = append(p.keys, key)
	return nil
}

func TestFetch_PublishesFreshSnapshotsOnly(t *testing.T) {
	provider := &stubProvider{obs: colomboObservation(), samples: forecastSamples(t)}
	publisher := &recordingPublisher{}
	snapshots := cache.New(16, 0)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	agg := New(provider, snapshots, publisher, logger, observability.NewMetricsForTesting())

	_, err := agg.FetchByCoords(context.Background(), 6.9271, 79.8612, "")
	require.NoError(t, err)
	_, err = agg.FetchByCoords(context.Background(), 6.9271, 79.8612, "")
	require.NoError(t, err)

	assert.Equal(t, []string{domain.CoordKey(6.9271, 79.8612)}, publisher.keys,
		"cache hits must not republish")
}

func TestFetch_PublishFailureDoesNotFailCaller(t *testing.T) {
	provider := &stubProvider{obs: colomboObservation(), samples: forecastSamples(t)}
	publisher := &recordingPublisher{err: assert.AnError}
	snapshots := cache.New(16, 0)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	agg := New(provider, snapshots, publisher, logger, observability.NewMetricsForTesting())

	_, err := agg.FetchByCoords(context.Background(), 6.9271, 79.8612, "")
	require.NoError(t, err, "broker trouble must not break the fetch")
}

func TestCheckReadiness(t *testing.T) {
	provider := &stubProvider{obs: colomboObservation(), samples: forecastSamples(t)}
	agg, _ := newTestAggregator(t, provider)

	// stubProvider has no HealthCheck, so the probe fails before any fetch.
	require.Error(t, agg.CheckReadiness(context.Background()))

	_, err := agg.FetchByCoords(context.Background(), 6.9271, 79.8612, "")
	require.NoError(t, err)
	assert.NoError(t, agg.CheckReadiness(context.Background()))
}
