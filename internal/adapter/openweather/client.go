// Package openweather fetches current weather readings from the
// OpenWeatherMap API.
package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/fieldwatch/pest-alert-service/internal/domain"
	"github.com/fieldwatch/pest-alert-service/internal/observability"
)

// Client calls the OpenWeatherMap current-weather endpoint.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates an OpenWeatherMap client with a fixed per-request timeout.
func NewClient(apiKey, baseURL string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		logger:  logger,
		metrics: metrics,
	}
}

// Current fetches the current weather for the given coordinates and
// normalizes it into a domain.Reading. Any transport, status, or decoding
// failure is returned as a domain.WeatherError.
func (c *Client) Current(ctx context.Context, lat, lon float64) (domain.Reading, error) {
	params := url.Values{
		"lat":   {fmt.Sprintf("%f", lat)},
		"lon":   {fmt.Sprintf("%f", lon)},
		"units": {"metric"},
		"appid": {c.apiKey},
	}

	start := time.Now()
	reading, err := c.doRequest(ctx, c.baseURL+"?"+params.Encode())
	c.metrics.WeatherRequestDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		c.metrics.WeatherRequests.WithLabelValues("error").Inc()
		return domain.Reading{}, domain.NewWeatherError(err)
	}
	c.metrics.WeatherRequests.WithLabelValues("success").Inc()
	return reading, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (domain.Reading, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.Reading{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Reading{}, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Reading{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return domain.Reading{}, fmt.Errorf("openweathermap API error: status %d: %s", resp.StatusCode, body)
	}

	var owm response
	if err := json.Unmarshal(body, &owm); err != nil {
		return domain.Reading{}, fmt.Errorf("decode response: %w", err)
	}

	return domain.Reading{
		Temperature: owm.Main.Temp,
		Humidity:    owm.Main.Humidity,
		RainMM:      parseRain(owm.Rain),
		Raw:         body,
	}, nil
}

// parseRain extracts rain.1h, tolerating an absent or non-object "rain"
// field. Anything unexpected normalizes to 0 mm.
func parseRain(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var rain struct {
		OneHour float64 `json:"1h"`
	}
	if err := json.Unmarshal(raw, &rain); err != nil {
		return 0
	}
	return rain.OneHour
}

// OpenWeatherMap API response types. Temperature and humidity are pointers
// so a field missing from the payload stays distinguishable from zero.

type response struct {
	Main struct {
		Temp     *float64 `json:"temp"`
		Humidity *float64 `json:"humidity"`
	} `json:"main"`
	Rain json.RawMessage `json:"rain"`
}
