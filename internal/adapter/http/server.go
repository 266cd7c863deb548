package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mehara-rothila/SportsBookSL-front-sub004/internal/domain"
)

var validate = validator.New()

// WeatherFetcher is the aggregator surface the API exposes.
type WeatherFetcher interface {
	FetchByCoords(ctx context.Context, lat, lon float64, displayName string) (domain.WeatherData, error)
	FetchByCity(ctx context.Context, name, displayName string) (domain.WeatherData, error)
}

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes the weather API plus health, readiness, and metrics
// HTTP endpoints.
type Server struct {
	httpServer *http.Server
	fetcher    WeatherFetcher
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the /api/v1/weather, /healthz,
// /readyz, and /metrics routes.
func NewServer(addr string, fetcher WeatherFetcher, ready ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		fetcher: fetcher,
		logger:  logger,
	}

	mux.HandleFunc("GET /api/v1/weather", s.handleWeather)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// coordQuery carries a parsed coordinate pair for range validation.
type coordQuery struct {
	Lat float64 `validate:"gte=-90,lte=90"`
	Lon float64 `validate:"gte=-180,lte=180"`
}

// handleWeather serves GET /api/v1/weather?lat=&lon=[&name=] and
// GET /api/v1/weather?city=[&name=]. Exactly one addressing mode is
// accepted per request; name overrides the display city in the snapshot.
func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	city := strings.TrimSpace(q.Get("city"))
	latStr, lonStr := q.Get("lat"), q.Get("lon")
	displayName := q.Get("name")

	hasCoords := latStr != "" || lonStr != ""
	if hasCoords == (city != "") {
		writeError(w, http.StatusBadRequest, "provide either lat and lon, or city")
		return
	}

	var (
		data domain.WeatherData
		err  error
	)
	if city != "" {
		data, err = s.fetcher.FetchByCity(r.Context(), city, displayName)
	} else {
		var cq coordQuery
		if cq, err = parseCoords(latStr, lonStr); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		data, err = s.fetcher.FetchByCoords(r.Context(), cq.Lat, cq.Lon, displayName)
	}

	if err != nil {
		s.writeFetchError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func parseCoords(latStr, lonStr string) (coordQuery, error) {
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return coordQuery{}, errors.New("lat must be a number")
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return coordQuery{}, errors.New("lon must be a number")
	}

	cq := coordQuery{Lat: lat, Lon: lon}
	if err := validate.Struct(cq); err != nil {
		return coordQuery{}, errors.New("lat must be in [-90,90] and lon in [-180,180]")
	}
	return cq, nil
}

// writeFetchError maps aggregator failures onto HTTP statuses: provider
// failures become 502 carrying the upstream status, everything else 500.
// Nothing is retried server-side; the caller renders a retry affordance.
func (s *Server) writeFetchError(w http.ResponseWriter, r *http.Request, err error) {
	var upstream *domain.UpstreamError
	if errors.As(err, &upstream) {
		s.logger.Warn("upstream fetch failed",
			"endpoint", upstream.Endpoint,
			"status", upstream.Status,
			"path", r.URL.Path,
		)
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error":             "upstream weather provider error",
			"upstream_endpoint": upstream.Endpoint,
			"upstream_status":   upstream.Status,
		})
		return
	}
	if errors.Is(err, domain.ErrInvalidCoords) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.logger.Error("weather fetch failed", "error", err, "path", r.URL.Path)
	writeError(w, http.StatusInternalServerError, "failed to fetch weather data")
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}
