package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"vzsocial/internal/config"
	"vzsocial/internal/middleware"

	"gorm.io/gorm"
)

// Schema modes selected by DB_SCHEMA_MODE.
const (
	SchemaModeHybrid = "hybrid"
	SchemaModeSQL    = "sql"
	SchemaModeAuto   = "auto"
)

// SchemaStatus describes what ApplySchema would do.
type SchemaStatus struct {
	Mode              string
	Environment       string
	WillRunSQL        bool
	WillRunAuto       bool
	AppliedVersions   []int
	PendingMigrations []Migration
}

func schemaPolicy(cfg *config.Config) (runSQL, runAuto bool, err error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.DBSchemaMode))
	switch mode {
	case SchemaModeSQL:
		return true, false, nil
	case SchemaModeAuto:
		if cfg.IsProduction() {
			return false, false, fmt.Errorf("refusing DB_SCHEMA_MODE=auto in %q", cfg.Env)
		}
		return false, true, nil
	case SchemaModeHybrid, "":
		return true, !cfg.IsProduction(), nil
	default:
		return false, false, fmt.Errorf("unsupported DB_SCHEMA_MODE %q", mode)
	}
}

// ApplySchema runs SQL migrations and/or GORM AutoMigrate according to the schema mode.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	runSQL, runAuto, err := schemaPolicy(cfg)
	if err != nil {
		return err
	}

	if runSQL {
		if err := RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("run sql migrations: %w", err)
		}
	}
	if runAuto {
		middleware.Logger.Info("Running GORM AutoMigrate", slog.String("env", cfg.Env))
		if err := db.WithContext(ctx).AutoMigrate(PersistentModels()...); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
	}
	return nil
}

// GetSchemaStatus reports applied and pending migrations without changing anything.
func GetSchemaStatus(ctx context.Context, db *gorm.DB, cfg *config.Config) (*SchemaStatus, error) {
	runSQL, runAuto, err := schemaPolicy(cfg)
	if err != nil {
		return nil, err
	}

	status := &SchemaStatus{
		Mode:        cfg.DBSchemaMode,
		Environment: cfg.Env,
		WillRunSQL:  runSQL,
		WillRunAuto: runAuto,
	}
	if !runSQL {
		return status, nil
	}

	if err := ensureMigrationLog(ctx, db); err != nil {
		return nil, err
	}
	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return nil, err
	}
	status.AppliedVersions = applied

	all, err := GetMigrations()
	if err != nil {
		return nil, err
	}
	done := make(map[int]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}
	for _, m := range all {
		if !done[m.Version] {
			status.PendingMigrations = append(status.PendingMigrations, m)
		}
	}
	return status, nil
}
