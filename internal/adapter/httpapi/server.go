// Package httpapi exposes the JSON HTTP surface: farm CRUD, alert listing,
// the protected run-checks trigger, and operational endpoints.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fieldwatch/pest-alert-service/internal/checker"
	"github.com/fieldwatch/pest-alert-service/internal/domain"
)

// FarmStore provides farm persistence for the HTTP handlers.
type FarmStore interface {
	CreateFarm(ctx context.Context, farm *domain.Farm) error
	ListFarms(ctx context.Context) ([]domain.Farm, error)
}

// AlertStore provides alert retrieval for the HTTP handlers.
type AlertStore interface {
	ListAlerts(ctx context.Context, limit int) ([]domain.Alert, error)
}

// CheckRunner executes one token-guarded check sweep.
type CheckRunner interface {
	Run(ctx context.Context, token string) (checker.Summary, error)
	CheckReadiness(ctx context.Context) error
}

// Server wires the API routes onto an Echo instance.
type Server struct {
	echo       *echo.Echo
	addr       string
	farms      FarmStore
	alerts     AlertStore
	checks     CheckRunner
	alertLimit int
	logger     *slog.Logger
}

// NewServer creates the HTTP server and registers all routes.
func NewServer(addr string, farms FarmStore, alerts AlertStore, checks CheckRunner, alertLimit int, logger *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:       e,
		addr:       addr,
		farms:      farms,
		alerts:     alerts,
		checks:     checks,
		alertLimit: alertLimit,
		logger:     logger,
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
			)
			return nil
		},
	}))

	e.POST("/farms/", s.createFarm)
	e.GET("/farms/", s.listFarms)
	e.GET("/alerts/", s.listAlerts)
	e.POST("/internal/run-checks", s.runChecks)

	e.GET("/healthz", s.health)
	e.GET("/readyz", s.ready)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.addr)
	return s.echo.Start(s.addr)
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

type farmRequest struct {
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (s *Server) createFarm(c echo.Context) error {
	var req farmRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, domain.NewValidationError("body", "malformed JSON"))
	}
	if req.Name == "" {
		return writeError(c, domain.NewValidationError("name", "must not be empty"))
	}
	if req.Latitude == nil || req.Longitude == nil {
		return writeError(c, domain.NewValidationError("coordinates", "latitude and longitude are required"))
	}

	farm := domain.Farm{
		Name:      req.Name,
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
	}
	if err := s.farms.CreateFarm(c.Request().Context(), &farm); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, farm)
}

func (s *Server) listFarms(c echo.Context) error {
	farms, err := s.farms.ListFarms(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	if farms == nil {
		farms = []domain.Farm{}
	}
	return c.JSON(http.StatusOK, farms)
}

func (s *Server) listAlerts(c echo.Context) error {
	alerts, err := s.alerts.ListAlerts(c.Request().Context(), s.alertLimit)
	if err != nil {
		return writeError(c, err)
	}
	if alerts == nil {
		alerts = []domain.Alert{}
	}
	return c.JSON(http.StatusOK, alerts)
}

func (s *Server) runChecks(c echo.Context) error {
	summary, err := s.checks.Run(c.Request().Context(), c.QueryParam("token"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := s.checks.CheckReadiness(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":  "not ready",
			"message": err.Error(),
		})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}

// writeError maps domain errors onto HTTP statuses with a JSON message body.
func writeError(c echo.Context, err error) error {
	switch {
	case domain.IsValidation(err):
		return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.JSON(http.StatusForbidden, map[string]string{"message": "forbidden"})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": err.Error()})
	}
}
