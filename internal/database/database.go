// Package database opens the Postgres primary and optional read replica and
// owns the schema lifecycle.
package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"vzsocial/internal/config"
	"vzsocial/internal/middleware"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the primary connection once Connect succeeds.
var DB *gorm.DB

var (
	readMu sync.RWMutex
	readDB *gorm.DB
)

// GetReadDB returns the read replica connection, or nil when none is configured.
func GetReadDB() *gorm.DB {
	readMu.RLock()
	defer readMu.RUnlock()
	return readDB
}

// SetReadDB replaces the read replica connection. Passing nil routes reads to the primary.
func SetReadDB(db *gorm.DB) {
	readMu.Lock()
	readDB = db
	readMu.Unlock()
}

// ConnectOptions tune Connect for tools that manage schema themselves.
type ConnectOptions struct {
	ApplySchema bool
}

// Connect opens the primary (and optional read replica) connection and applies the schema.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	return ConnectWithOptions(cfg, ConnectOptions{ApplySchema: true})
}

// ConnectWithOptions opens the connections. A replica that fails to open is
// logged and skipped.
func ConnectWithOptions(cfg *config.Config, opts ConnectOptions) (*gorm.DB, error) {
	primary, err := open(dsn(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode), cfg)
	if err != nil {
		return nil, fmt.Errorf("connect primary: %w", err)
	}
	middleware.Logger.Info("database connected", slog.String("host", cfg.DBHost), slog.String("db", cfg.DBName))

	if opts.ApplySchema {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := ApplySchema(ctx, primary, cfg); err != nil {
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}

	if cfg.DBReadHost != "" {
		replica, err := open(dsn(cfg.DBReadHost, cfg.DBReadPort, cfg.DBReadUser, cfg.DBReadPassword, cfg.DBName, cfg.DBSSLMode), cfg)
		if err != nil {
			middleware.Logger.Warn("read replica unavailable, reads use the primary", slog.String("error", err.Error()))
		} else {
			SetReadDB(replica)
			middleware.Logger.Info("read replica connected", slog.String("host", cfg.DBReadHost))
		}
	}

	DB = primary
	return primary, nil
}

func open(source string, cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(source), &gorm.Config{
		Logger: newQueryLogger(middleware.Logger, logger.Warn),
	})
	if err != nil {
		return nil, err
	}
	if err := configurePool(db, cfg); err != nil {
		return nil, fmt.Errorf("configure pool: %w", err)
	}
	return db, nil
}

// Close releases the replica, if any, and then db.
func Close(db *gorm.DB) error {
	if replica := GetReadDB(); replica != nil {
		SetReadDB(nil)
		if sqlDB, err := replica.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// dsn builds a libpq keyword/value string, quoting values that need it.
func dsn(host, port, user, password, name, sslMode string) string {
	if sslMode == "" {
		sslMode = "disable"
	}
	pairs := [][2]string{
		{"host", host}, {"port", port}, {"user", user},
		{"password", password}, {"dbname", name}, {"sslmode", sslMode},
	}
	parts := make([]string, 0, len(pairs))
	for _, kv := range pairs {
		parts = append(parts, kv[0]+"="+quoteDSNValue(kv[1]))
	}
	return strings.Join(parts, " ")
}

func quoteDSNValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}

func configurePool(db *gorm.DB, cfg *config.Config) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	sqlDB.SetMaxOpenConns(positiveOr(cfg.DBMaxOpenConns, 25))
	sqlDB.SetMaxIdleConns(positiveOr(cfg.DBMaxIdleConns, 5))
	sqlDB.SetConnMaxLifetime(time.Duration(positiveOr(cfg.DBConnMaxLifetimeMinutes, 5)) * time.Minute)
	return nil
}

func positiveOr(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
