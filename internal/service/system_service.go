package service

import (
	"context"
	"database/sql"
	"maps"
	"strconv"

	"github.com/damiad/net-worth-tracker/internal/database"
	"github.com/damiad/net-worth-tracker/internal/model"
	"github.com/damiad/net-worth-tracker/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db       *sql.DB
	features map[string]bool
}

// NewSystemService creates a new SystemService reporting the given optional features.
func NewSystemService(db *sql.DB, features map[string]bool) *SystemService {
	return &SystemService{
		db:       db,
		features: features,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth(ctx context.Context) error {
	return database.HealthCheck(ctx, s.db)
}

// CheckVersion reports the application version, the schema version and
// whether migrations are pending.
func (s *SystemService) CheckVersion(ctx context.Context) (model.VersionInfo, error) {
	current, pending, err := database.SchemaVersion(ctx, s.db)
	if err != nil {
		return model.VersionInfo{}, err
	}

	info := model.VersionInfo{
		AppVersion:      version.Version,
		DbVersion:       strconv.FormatInt(current, 10),
		Features:        maps.Clone(s.features),
		MigrationNeeded: pending,
	}
	if info.Features == nil {
		info.Features = map[string]bool{}
	}
	if pending {
		msg := "database schema is behind the application; restart the server to apply migrations"
		info.MigrationMessage = &msg
	}

	return info, nil
}
