package database

import (
	"fmt"
	"time"

	"real-estate-crm/internal/config"
	"real-estate-crm/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the configured database. The returned handle is
// constructed once at startup and injected into every service that
// needs it; nothing in the application imports a package-level handle.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	var dialector gorm.Dialector
	switch cfg.Type {
	case "postgres":
		pg := cfg.Postgres
		sslMode := pg.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			pg.Host, pg.Port, pg.User, pg.Password, pg.Database, sslMode)
		dialector = postgres.Open(dsn)
	case "mysql", "":
		my := cfg.MySQL
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			my.User, my.Password, my.Host, my.Port, my.Database)
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

// InitSchema creates tables using GORM AutoMigrate.
func InitSchema(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Property{},
		&models.Client{},
		&models.Agent{},
		&models.Contract{},
		&models.Visit{},
		&models.User{},
		&models.Setting{},
		&models.IndexQueue{},
	)
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
