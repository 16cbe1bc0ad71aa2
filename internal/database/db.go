package database

import (
	"time"

	"completions-tracker/internal/config"
	"completions-tracker/internal/logger"
	"completions-tracker/internal/models"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// Open connects to the store without migrating it.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, errors.Errorf("unsupported driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if driver == "sqlite" {
		// one connection so the pragma applies to every statement
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, errors.Wrap(err, "enable foreign keys")
		}
	}

	return db, nil
}

// Init connects with retries, migrates and seeds the admin profile.
func Init(cfg *config.Config) error {
	attempts := cfg.DBConnectAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 1; i <= attempts; i++ {
		logger.Info("connecting to database", "attempt", i, "max_attempts", attempts, "driver", cfg.DBDriver)

		DB, err = Open(cfg.DBDriver, cfg.DBDSN)
		if err == nil {
			logger.Info("connected to database")
			break
		}

		logger.Warn("failed to connect to database", "error", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return errors.Wrapf(err, "failed to connect to db after %d attempts", attempts)
	}

	if err := Migrate(DB); err != nil {
		return err
	}

	return SeedAdmin(DB, cfg.AdminEmail, cfg.AdminPassword)
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All...); err != nil {
		return errors.Wrap(err, "failed to migrate")
	}
	return nil
}

// SeedAdmin creates the first admin profile when no admin exists yet.
func SeedAdmin(db *gorm.DB, email, password string) error {
	var count int64
	if err := db.Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Count(&count).Error; err != nil {
		return errors.Wrap(err, "failed to check admin user")
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "failed to hash default admin password")
	}

	admin := models.User{
		Email:        email,
		FullName:     "Administrador",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		Permissions:  append([]string(nil), models.AllPages...),
	}
	if err := db.Create(&admin).Error; err != nil {
		return errors.Wrap(err, "failed to create default admin")
	}

	logger.Info("created default admin user", "email", email)
	return nil
}
