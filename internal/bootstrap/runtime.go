// Package bootstrap wires the runtime dependencies shared by the server and tools.
package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"vzsocial/internal/cache"
	"vzsocial/internal/config"
	"vzsocial/internal/database"
	"vzsocial/internal/middleware"
	"vzsocial/internal/models"
	"vzsocial/internal/seed"
	"vzsocial/internal/service"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedPreset, when set, runs the named seed preset after connecting.
	SeedPreset string
}

// InitRuntime connects to DB and Redis and ensures the development admin exists.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if err := ensureDevAdmin(cfg, db); err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap development admin: %w", err)
	}

	if opts.SeedPreset != "" {
		if _, err := seed.NewSeeder(db, seed.Options{}).ApplyPreset(opts.SeedPreset); err != nil {
			return nil, nil, fmt.Errorf("failed to seed preset %s: %w", opts.SeedPreset, err)
		}
	}

	return db, r, nil
}

func ensureDevAdmin(cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	if !strings.EqualFold(cfg.Env, "development") || !cfg.DevBootstrapAdmin {
		return nil
	}

	username := strings.TrimSpace(cfg.DevAdminUsername)
	if username == "" {
		username = "vz_root"
	}
	email := strings.TrimSpace(strings.ToLower(cfg.DevAdminEmail))
	if email == "" {
		email = "root@vzsocial.local"
	}
	if cfg.DevAdminPassword == "" {
		return errors.New("DEV_ADMIN_PASSWORD must be set when DEV_BOOTSTRAP_ADMIN is enabled")
	}

	hash, err := service.HashAdminPassword(cfg.DevAdminPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		var admin models.AdminUser
		findErr := tx.Where("username = ?", username).First(&admin).Error
		switch {
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			admin = models.AdminUser{
				Name:     "Root",
				Username: username,
				Email:    email,
				Password: hash,
				UserType: models.AdminRoleAdmin,
			}
			return tx.Create(&admin).Error
		case findErr != nil:
			return findErr
		default:
			return tx.Model(&admin).Updates(map[string]any{
				"user_type": models.AdminRoleAdmin,
				"password":  hash,
			}).Error
		}
	})
	if err != nil {
		return err
	}

	middleware.Logger.Info("development admin ensured", slog.String("username", username))
	return nil
}
