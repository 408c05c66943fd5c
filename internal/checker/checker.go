// Package checker runs the pest-risk sweep: load farms, fetch weather,
// evaluate rules, record alerts.
package checker

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"

	"github.com/fieldwatch/pest-alert-service/internal/domain"
	"github.com/fieldwatch/pest-alert-service/internal/observability"
)

// FarmSource loads the farms to be checked.
type FarmSource interface {
	ListFarms(ctx context.Context) ([]domain.Farm, error)
}

// WeatherSource fetches a normalized weather reading for coordinates.
type WeatherSource interface {
	Current(ctx context.Context, lat, lon float64) (domain.Reading, error)
}

// AlertSink persists a new alert.
type AlertSink interface {
	CreateAlert(ctx context.Context, alert *domain.Alert) error
}

// AlertPublisher notifies downstream consumers about a recorded alert.
// Publishing is best-effort; failures never abort the sweep.
type AlertPublisher interface {
	PublishAlert(ctx context.Context, farm domain.Farm, alert domain.Alert, risks []string) error
}

// Pinger verifies backing-store connectivity for readiness checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Summary reports the outcome of one check sweep.
type Summary struct {
	Status  string `json:"status"`
	Checked int    `json:"checked"`
}

// Checker orchestrates a single synchronous check sweep over all farms.
// Scheduling is external; an outside job runner hits the trigger endpoint
// on whatever cadence it likes.
type Checker struct {
	farms     FarmSource
	weather   WeatherSource
	alerts    AlertSink
	publisher AlertPublisher // nil when event publishing is disabled
	pinger    Pinger
	token     string
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Checker. publisher may be nil to disable alert events.
func New(farms FarmSource, weather WeatherSource, alerts AlertSink, publisher AlertPublisher, pinger Pinger, token string, logger *slog.Logger, metrics *observability.Metrics) *Checker {
	return &Checker{
		farms:     farms,
		weather:   weather,
		alerts:    alerts,
		publisher: publisher,
		pinger:    pinger,
		token:     token,
		logger:    logger,
		metrics:   metrics,
	}
}

// Run executes one sweep. The caller-supplied token must match the configured
// secret or the sweep is rejected before any processing.
//
// Farms are checked sequentially. A weather or persistence failure for one
// farm is logged and counted but does not abort the sweep; only a failure to
// load the farm list does. Failed farms are excluded from the checked count.
func (c *Checker) Run(ctx context.Context, token string) (Summary, error) {
	if subtle.ConstantTimeCompare([]byte(token), []byte(c.token)) != 1 {
		return Summary{}, domain.ErrForbidden
	}

	c.metrics.CheckRuns.Inc()

	farms, err := c.farms.ListFarms(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("load farms: %w", err)
	}

	checked := 0
	for _, farm := range farms {
		if err := c.checkFarm(ctx, farm); err != nil {
			c.metrics.FarmFailures.Inc()
			c.logger.Error("farm check failed",
				"farm_id", farm.ID,
				"farm_name", farm.Name,
				"error", err,
			)
			continue
		}
		checked++
		c.metrics.FarmsChecked.Inc()
	}

	c.logger.Info("check sweep complete", "farms", len(farms), "checked", checked)
	return Summary{Status: "done", Checked: checked}, nil
}

// checkFarm fetches weather for one farm, evaluates the rules, and records
// an alert when at least one risk matches.
func (c *Checker) checkFarm(ctx context.Context, farm domain.Farm) error {
	reading, err := c.weather.Current(ctx, farm.Latitude, farm.Longitude)
	if err != nil {
		return err
	}

	risks := domain.EvaluateRules(reading)
	if len(risks) == 0 {
		return nil
	}

	alert := domain.Alert{
		FarmID:  farm.ID,
		Message: domain.AlertMessage(farm.Name, risks),
	}
	if err := c.alerts.CreateAlert(ctx, &alert); err != nil {
		return err
	}
	c.metrics.AlertsCreated.Inc()
	c.logger.Info("alert recorded", "farm_id", farm.ID, "risks", len(risks))

	if c.publisher != nil {
		if err := c.publisher.PublishAlert(ctx, farm, alert, risks); err != nil {
			c.metrics.PublishFailures.Inc()
			c.logger.Warn("alert publish failed", "farm_id", farm.ID, "error", err)
		} else {
			c.metrics.AlertsPublished.Inc()
		}
	}
	return nil
}

// CheckReadiness reports whether the backing store is reachable.
func (c *Checker) CheckReadiness(ctx context.Context) error {
	return c.pinger.Ping(ctx)
}
