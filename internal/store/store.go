// Package store persists farms and alerts through GORM. Sessions are scoped
// to the request context via WithContext; the underlying pool releases
// connections on every exit path.
package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/fieldwatch/pest-alert-service/internal/domain"
)

// Store provides persistence for farms and alerts.
type Store struct {
	db *gorm.DB
}

// New wraps a GORM handle in a Store.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// AutoMigrate creates or updates the farms and alerts tables.
func (s *Store) AutoMigrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&domain.Farm{}, &domain.Alert{}); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// CreateFarm validates and inserts a farm, filling in the assigned ID.
func (s *Store) CreateFarm(ctx context.Context, farm *domain.Farm) error {
	if farm.Name == "" {
		return domain.NewValidationError("name", "must not be empty")
	}
	if err := s.db.WithContext(ctx).Create(farm).Error; err != nil {
		return fmt.Errorf("create farm: %w", err)
	}
	return nil
}

// ListFarms returns every stored farm. No pagination; the farm set is
// expected to stay small.
func (s *Store) ListFarms(ctx context.Context) ([]domain.Farm, error) {
	var farms []domain.Farm
	if err := s.db.WithContext(ctx).Find(&farms).Error; err != nil {
		return nil, fmt.Errorf("list farms: %w", err)
	}
	return farms, nil
}

// CreateAlert validates and inserts an alert. A zero Timestamp is stamped
// from the domain clock at insertion.
func (s *Store) CreateAlert(ctx context.Context, alert *domain.Alert) error {
	if alert.FarmID == 0 {
		return domain.NewValidationError("farm_id", "must reference a farm")
	}
	if alert.Message == "" {
		return domain.NewValidationError("message", "must not be empty")
	}
	if alert.Timestamp.IsZero() {
		alert.Timestamp = domain.Now()
	}
	if err := s.db.WithContext(ctx).Create(alert).Error; err != nil {
		return fmt.Errorf("create alert: %w", err)
	}
	return nil
}

// ListAlerts returns alerts ordered newest first, capped at limit.
func (s *Store) ListAlerts(ctx context.Context, limit int) ([]domain.Alert, error) {
	var alerts []domain.Alert
	err := s.db.WithContext(ctx).
		Order("timestamp DESC").
		Limit(limit).
		Find(&alerts).Error
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	return alerts, nil
}

// Ping verifies database connectivity for readiness checks.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.WithContext(ctx).DB()
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}
