// Command weatherfetch performs a single aggregator fetch and prints the
// normalized snapshot as JSON. Useful for checking an API key, inspecting
// what widgets will render, or debugging normalization against the live
// provider.
//
// Usage:
//
//	OWM_API_KEY=... go run ./cmd/weatherfetch -city Colombo
//	OWM_API_KEY=... go run ./cmd/weatherfetch -lat 6.9271 -lon 79.8612 -name "Sugathadasa Stadium"
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/mehara-rothila/SportsBookSL-front-sub004/internal/adapter/openweather"
	"github.com/mehara-rothila/SportsBookSL-front-sub004/internal/cache"
	"github.com/mehara-rothila/SportsBookSL-front-sub004/internal/config"
	"github.com/mehara-rothila/SportsBookSL-front-sub004/internal/domain"
	"github.com/mehara-rothila/SportsBookSL-front-sub004/internal/observability"
	"github.com/mehara-rothila/SportsBookSL-front-sub004/internal/weather"
)

func main() {
	city := flag.String("city", "", "fetch by city name")
	lat := flag.Float64("lat", 0, "latitude (used with -lon)")
	lon := flag.Float64("lon", 0, "longitude (used with -lat)")
	name := flag.String("name", "", "display name override, e.g. a facility name")
	timeout := flag.Duration("timeout", 15*time.Second, "overall fetch timeout")
	flag.Parse()

	hasCoords := *lat != 0 || *lon != 0
	if (*city == "") == !hasCoords {
		fmt.Fprintln(os.Stderr, "provide either -city, or -lat and -lon")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetricsForTesting()

	provider := openweather.NewClient(cfg.OWMAPIKey, cfg.OWMBaseURL, cfg.OWMTimeout, metrics, logger)
	aggregator := weather.New(provider, cache.New(4, 0), nil, logger, metrics)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var data domain.WeatherData
	if *city != "" {
		data, err = aggregator.FetchByCity(ctx, *city, *name)
	} else {
		data, err = aggregator.FetchByCoords(ctx, *lat, *lon, *name)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "fetch: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		fmt.Fprintf(os.Stderr, "encode: %v\n", err)
		os.Exit(1)
	}
}
