package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-car-market/internal/config"
	"github.com/MKhiriev/go-car-market/internal/logger"
	"github.com/MKhiriev/go-car-market/migrations"
	"github.com/jackc/pgx/v5/pgconn"

	// registers the "pgx" database/sql driver
	_ "github.com/jackc/pgx/v5/stdlib"
)

// connectAttempts bounds how many times the initial ping is retried when the
// database reports a transient (retryable) error, e.g. while it is starting up.
const connectAttempts = 3

type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

func NewConnectPostgres(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	// establish connection
	conn, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error occured during database connection")
		return nil, fmt.Errorf("error occured during database connection: %w", err)
	}

	// setup connections
	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(4)

	classifier := NewPostgresErrorClassifier()

	// ping database, retrying transient failures
	for attempt := 1; ; attempt++ {
		err = conn.PingContext(ctx)
		if err == nil {
			break
		}
		if attempt >= connectAttempts || classifier.Classify(err) != Retryable {
			log.Err(err).Str("func", "NewConnectPostgres").Int("attempt", attempt).Msg("error connecting database (ping)")
			return nil, err
		}
		log.Warn().Err(err).Str("func", "NewConnectPostgres").Int("attempt", attempt).Msg("transient database error, retrying ping")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Second * time.Duration(attempt)):
		}
	}
	log.Info().Str("func", "NewConnectPostgres").Msg("connected to database successfully")

	// construct a DB struct
	db := &DB{
		DB:                 conn,
		logger:             log,
		errorClassificator: classifier,
	}

	return db, nil
}

// Migrate applies all pending schema migrations.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}

func postgresError(err error) string {
	var pgErr *pgconn.PgError
	// if postgres returns error
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	return ""
}
