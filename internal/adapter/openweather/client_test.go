package openweather

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldwatch/pest-alert-service/internal/domain"
	"github.com/fieldwatch/pest-alert-service/internal/observability"
)

const testAPIKey = "test-api-key"

func testClient(baseURL string) *Client {
	return &Client{
		apiKey:     testAPIKey,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics:    observability.NewMetricsForTesting(),
	}
}

func TestCurrent_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testAPIKey, r.URL.Query().Get("appid"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		assert.NotEmpty(t, r.URL.Query().Get("lat"))
		assert.NotEmpty(t, r.URL.Query().Get("lon"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"main":{"temp":25.5,"humidity":90},"rain":{"1h":10.2}}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	reading, err := c.Current(context.Background(), 10.0, 20.0)
	require.NoError(t, err)

	require.NotNil(t, reading.Temperature)
	require.NotNil(t, reading.Humidity)
	assert.Equal(t, 25.5, *reading.Temperature)
	assert.Equal(t, 90.0, *reading.Humidity)
	assert.Equal(t, 10.2, reading.RainMM)
	assert.Contains(t, string(reading.Raw), `"humidity":90`)
}

func TestCurrent_NoRain(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"main":{"temp":18.0,"humidity":55}}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	reading, err := c.Current(context.Background(), 10.0, 20.0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, reading.RainMM)
}

func TestCurrent_MalformedRainShape(t *testing.T) {
	// Some payloads carry "rain" as a bare number or string; treat as 0.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"main":{"temp":18.0,"humidity":55},"rain":"heavy"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	reading, err := c.Current(context.Background(), 10.0, 20.0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, reading.RainMM)
}

func TestCurrent_AbsentTemperatureAndHumidity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"main":{}}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	reading, err := c.Current(context.Background(), 10.0, 20.0)
	require.NoError(t, err)
	assert.Nil(t, reading.Temperature)
	assert.Nil(t, reading.Humidity)
}

func TestCurrent_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"cod":401,"message":"Invalid API key"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Current(context.Background(), 10.0, 20.0)
	require.Error(t, err)

	var we *domain.WeatherError
	require.True(t, errors.As(err, &we))
	assert.Contains(t, err.Error(), "status 401")
}

func TestCurrent_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{not-json`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Current(context.Background(), 10.0, 20.0)
	require.Error(t, err)

	var we *domain.WeatherError
	assert.True(t, errors.As(err, &we))
}

func TestCurrent_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	srv.Close() // closed before use to force a connection error

	c := testClient(srv.URL)
	_, err := c.Current(context.Background(), 10.0, 20.0)
	require.Error(t, err)

	var we *domain.WeatherError
	assert.True(t, errors.As(err, &we))
}
