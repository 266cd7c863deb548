// Package openweather implements domain.Provider against the OpenWeatherMap
// REST API.
package openweather

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/mehara-rothila/SportsBookSL-front-sub004/internal/domain"
	"github.com/mehara-rothila/SportsBookSL-front-sub004/internal/observability"
)

const (
	endpointCurrent  = "current"
	endpointForecast = "forecast"

	outcomeSuccess = "success"
	outcomeError   = "error"
)

// Client calls the OpenWeatherMap current-conditions and 5-day forecast
// endpoints. A shared circuit breaker fails calls fast while the provider
// is misbehaving; there is no automatic retry — a failed call surfaces to
// the caller immediately.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an OpenWeatherMap client.
func NewClient(apiKey, baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "openweather",
			MaxRequests: 5,
			Interval:    1 * time.Minute,
			Timeout:     2 * time.Minute,
		}),
		metrics: metrics,
		logger:  logger,
	}
}

// CurrentConditions fetches the instantaneous reading for a location.
func (c *Client) CurrentConditions(ctx context.Context, q domain.Query) (domain.Observation, error) {
	var payload currentResponse
	if err := c.doRequest(ctx, endpointCurrent, "/weather", q, &payload); err != nil {
		return domain.Observation{}, err
	}

	obs := domain.Observation{
		CityName:   payload.Name,
		Temp:       payload.Main.Temp,
		FeelsLike:  payload.Main.FeelsLike,
		Humidity:   payload.Main.Humidity,
		Pressure:   payload.Main.Pressure,
		WindSpeed:  payload.Wind.Speed,
		Conditions: mapConditions(payload.Weather),
		ObservedAt: time.Unix(payload.Dt, 0).UTC(),
	}
	if payload.Coord != nil {
		obs.Coord = domain.Coord{Lat: payload.Coord.Lat, Lon: payload.Coord.Lon}
		obs.HasCoord = true
	}
	return obs, nil
}

// Forecast fetches the 3-hour-step forecast list for a location, in the
// provider's original chronological order.
func (c *Client) Forecast(ctx context.Context, q domain.Query) ([]domain.ForecastSample, error) {
	var payload forecastResponse
	if err := c.doRequest(ctx, endpointForecast, "/forecast", q, &payload); err != nil {
		return nil, err
	}

	samples := make([]domain.ForecastSample, 0, len(payload.List))
	for _, item := range payload.List {
		sample := domain.ForecastSample{
			Time:      time.Unix(item.Dt, 0).UTC(),
			Temp:      item.Main.Temp,
			Humidity:  item.Main.Humidity,
			WindSpeed: item.Wind.Speed,
			Pop:       item.Pop,
		}
		if conds := mapConditions(item.Weather); len(conds) > 0 {
			sample.Condition = conds[0]
		}
		samples = append(samples, sample)
	}
	return samples, nil
}

// HealthCheck pings the current-conditions endpoint so the readiness probe
// can tell a bad API key or unreachable provider apart from "no traffic yet".
func (c *Client) HealthCheck(ctx context.Context) error {
	var payload currentResponse
	return c.doRequest(ctx, endpointCurrent, "/weather", domain.ByCity("Colombo"), &payload)
}

func (c *Client) doRequest(ctx context.Context, endpoint, path string, q domain.Query, out any) error {
	params := url.Values{
		"appid": {c.apiKey},
		"units": {"metric"},
	}
	if q.City != "" {
		params.Set("q", q.City)
	} else {
		params.Set("lat", strconv.FormatFloat(q.Lat, 'f', -1, 64))
		params.Set("lon", strconv.FormatFloat(q.Lon, 'f', -1, 64))
	}

	fullURL := c.baseURL + path + "?" + params.Encode()

	start := time.Now()
	result, err := c.breaker.Execute(func() (any, error) {
		return c.fetchBody(ctx, endpoint, fullURL)
	})
	c.metrics.UpstreamDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, outcomeError).Inc()
		if _, ok := err.(*domain.UpstreamError); ok {
			return err
		}
		// Transport failures and open-breaker rejections.
		return &domain.UpstreamError{Endpoint: endpoint, Err: err}
	}

	body := result.([]byte)
	if err := json.Unmarshal(body, out); err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, outcomeError).Inc()
		return &domain.UpstreamError{Endpoint: endpoint, Err: err}
	}

	c.metrics.UpstreamRequests.WithLabelValues(endpoint, outcomeSuccess).Inc()
	return nil
}

// fetchBody performs one HTTP round trip and reads the body. Non-2xx
// responses become UpstreamErrors carrying the provider's status and body,
// which also count as failures toward the circuit breaker.
func (c *Client) fetchBody(ctx context.Context, endpoint, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &domain.UpstreamError{Endpoint: endpoint, Status: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

func mapConditions(items []weatherCondition) []domain.Condition {
	if len(items) == 0 {
		return nil
	}
	conds := make([]domain.Condition, 0, len(items))
	for _, w := range items {
		conds = append(conds, domain.Condition{
			Main:        w.Main,
			Description: w.Description,
			Icon:        w.Icon,
		})
	}
	return conds
}
