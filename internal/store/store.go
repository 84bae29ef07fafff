// Package store persists chat history and the roadmap reference tables through gorm.
// SQLite is the default backend; Postgres and MySQL are picked from DATABASE_URL.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/career-roadmap/ai-gateway/internal/config"
	"github.com/career-roadmap/ai-gateway/internal/errx"
)

const DefaultSQLitePath = "career_roadmap.db"

const (
	dialectSQLite   = "sqlite"
	dialectPostgres = "postgres"
	dialectMySQL    = "mysql"
)

type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// Open connects, sizes the pool and migrates the schema.
func Open(cfg config.DatabaseConfig, log zerolog.Logger) (*Store, error) {
	dialector, dialect, err := dialectorFor(cfg.URL)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(gormWriter{log: log}, gormlogger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if dialect == dialectSQLite {
		// one writer at a time; the busy timeout covers the rest
		sqlDB.SetMaxOpenConns(1)
	} else {
		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		}
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.AutoMigrate(&ChatEntry{}, &RoadmapProgress{}, &Event{}, &Project{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	log.Info().Str("dialect", dialect).Msg("database ready")
	return &Store{db: db, now: time.Now}, nil
}

// dialectorFor maps DATABASE_URL onto a gorm dialector.
func dialectorFor(url string) (gorm.Dialector, string, error) {
	url = strings.TrimSpace(url)
	switch {
	case url == "":
		return sqlite.Open(sqliteDSN(DefaultSQLitePath)), dialectSQLite, nil
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return postgres.New(postgres.Config{DSN: url, PreferSimpleProtocol: true}), dialectPostgres, nil
	case strings.HasPrefix(url, "mysql://"):
		return mysql.Open(mysqlDSN(strings.TrimPrefix(url, "mysql://"))), dialectMySQL, nil
	case strings.HasPrefix(url, "sqlite:///"):
		return sqlite.Open(sqliteDSN(strings.TrimPrefix(url, "sqlite:///"))), dialectSQLite, nil
	case strings.HasPrefix(url, "sqlite://"):
		return sqlite.Open(sqliteDSN(strings.TrimPrefix(url, "sqlite://"))), dialectSQLite, nil
	case strings.Contains(url, "://"):
		return nil, "", fmt.Errorf("unsupported DATABASE_URL scheme in %q", redact(url))
	default:
		return sqlite.Open(sqliteDSN(url)), dialectSQLite, nil
	}
}

func sqliteDSN(path string) string {
	if path == "" {
		path = DefaultSQLitePath
	}
	return withParam(path, "_busy_timeout=5000")
}

func mysqlDSN(dsn string) string {
	if strings.Contains(dsn, "parseTime=") {
		return dsn
	}
	return withParam(dsn, "parseTime=True&charset=utf8mb4")
}

func withParam(dsn, param string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + param
	}
	return dsn + "?" + param
}

// redact drops credentials from a URL before it is logged or returned.
func redact(url string) string {
	scheme, rest, ok := strings.Cut(url, "://")
	if !ok {
		return url
	}
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		rest = "***" + rest[at:]
	}
	return scheme + "://" + rest
}

type gormWriter struct {
	log zerolog.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.Warn().Str("component", "gorm").Msgf(format, args...)
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errx.Storage("ping", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return errx.Storage("ping", err)
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Append stores one exchange. Timestamps never go backwards for a uid, even if the
// wall clock does.
func (s *Store) Append(ctx context.Context, uid, question, answer, engine string) (*ChatEntry, error) {
	if strings.TrimSpace(question) == "" {
		return nil, errx.Validation("question is required")
	}
	entry := &ChatEntry{
		UID:       uid,
		Question:  question,
		Answer:    answer,
		Engine:    engine,
		Timestamp: s.now().UTC().Truncate(time.Microsecond),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last ChatEntry
		err := tx.Where("uid = ?", uid).Order("timestamp DESC").Order("id DESC").Take(&last).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
		case err != nil:
			return err
		case last.Timestamp.After(entry.Timestamp):
			entry.Timestamp = last.Timestamp
		}
		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, errx.Storage("append chat entry", err)
	}
	return entry, nil
}

// ListByUser returns the user's entries oldest first. The slice is never nil.
func (s *Store) ListByUser(ctx context.Context, uid string) ([]ChatEntry, error) {
	entries := make([]ChatEntry, 0)
	err := s.db.WithContext(ctx).
		Where("uid = ?", uid).
		Order("timestamp ASC").
		Order("id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, errx.Storage("list chat history", err)
	}
	if entries == nil {
		entries = []ChatEntry{}
	}
	return entries, nil
}

// ClearByUser deletes every entry for uid and reports how many were removed.
func (s *Store) ClearByUser(ctx context.Context, uid string) (int64, error) {
	var deleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("uid = ?", uid).Delete(&ChatEntry{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, errx.Storage("clear chat history", err)
	}
	return deleted, nil
}
