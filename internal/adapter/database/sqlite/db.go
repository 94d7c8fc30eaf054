package sqlite

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	sqldblogger "github.com/simukti/sqldb-logger"
	"github.com/simukti/sqldb-logger/logadapter/zerologadapter"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"go.opentelemetry.io/otel"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const MemoryPath = ":memory:"

type DB struct {
	*sql.DB
	QueryBuilder *squirrel.StatementBuilderType
}

type Options struct {
	// Path is a file path or MemoryPath.
	Path string

	// QueryLog receives every statement through sqldb-logger. Nil disables statement logging.
	QueryLog io.Writer
}

// New opens the database, instruments it with otelsql and applies the embedded migrations.
func New(opts Options) (*DB, error) {
	if opts.Path == "" {
		opts.Path = "database.db"
	}

	sqlDB, err := otelsql.Open("sqlite3", opts.Path,
		otelsql.WithDBSystem("sqlite"),
		otelsql.WithDBName("taskapp"),
		otelsql.WithTracerProvider(otel.GetTracerProvider()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	db := sqlDB
	if opts.QueryLog != nil {
		logger := zerolog.New(opts.QueryLog).With().Timestamp().Logger()
		db = sqldblogger.OpenDriver(opts.Path, sqlDB.Driver(), zerologadapter.New(logger))

		// Only the otelsql driver is reused; its own pool has no open connections yet.
		if err := sqlDB.Close(); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to release sqlite pool: %w", err)
		}
	}

	if opts.Path == MemoryPath {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	queryBuilder := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

	return &DB{
		DB:           db,
		QueryBuilder: &queryBuilder,
	}, nil
}

// RunMigrations applies the embedded migrations. The migrate instance is not closed because
// closing it would close db as well.
func RunMigrations(db *sql.DB) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
