package database

import (
	"fmt"
	stdlog "log"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rpupo63/blog-post-api/config"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// Open connects to the database described by cfg.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := newDialector(cfg.Type, cfg.Path, cfg.DSN)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		PrepareStmt: false,
		Logger:      newGormLogger(cfg.SlowThreshold),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Type, err)
	}

	if cfg.Type == TypeSQLite {
		// sqlite allows a single writer
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := registerReplicas(db, cfg); err != nil {
		return nil, err
	}

	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("test database connection: %w", err)
	}

	return db, nil
}

func newDialector(dbType, path, dsn string) (gorm.Dialector, error) {
	switch dbType {
	case TypeSQLite, "":
		return sqlite.Open(path), nil
	case TypePostgres:
		if dsn == "" {
			return nil, fmt.Errorf("database dsn is required for %s", TypePostgres)
		}
		return postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}
}

// registerReplicas routes reads to the configured replicas. Writes and
// transactions stay on the primary.
func registerReplicas(db *gorm.DB, cfg config.DatabaseConfig) error {
	if len(cfg.ReplicaDSNs) == 0 {
		return nil
	}
	if cfg.Type != TypePostgres {
		log.Warn().Str("type", cfg.Type).Msg("read replicas are only supported for postgres, ignoring")
		return nil
	}

	replicas := make([]gorm.Dialector, 0, len(cfg.ReplicaDSNs))
	for _, dsn := range cfg.ReplicaDSNs {
		replicas = append(replicas, postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true}))
	}

	err := db.Use(dbresolver.Register(dbresolver.Config{
		Replicas: replicas,
		Policy:   dbresolver.RandomPolicy{},
	}))
	if err != nil {
		return fmt.Errorf("register read replicas: %w", err)
	}
	log.Info().Int("replicas", len(replicas)).Msg("Registered read replicas")
	return nil
}

func newGormLogger(slowThreshold time.Duration) logger.Interface {
	gormLog := log.With().Str("component", "gorm").Logger()
	return logger.New(
		stdlog.New(gormLog, "", 0),
		logger.Config{
			SlowThreshold:             slowThreshold,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
