package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// BoardDB wraps the Postgres connection used as the board's document store.
// Every document type (user, group, task, app state) has its own table;
// writes are atomic per row only, never across tables.
type BoardDB struct {
	DB  *sql.DB
	Log *zerolog.Logger
}

// NewBoardDB is a constructor that initializes BoardDB with DB and Log
func NewBoardDB(log *zerolog.Logger) (*BoardDB, error) {
	// Get the database connection string from the environment
	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		log.Error().Msg("DATABASE_URL environment variable is not set")
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	// Open the database connection
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Error().Err(err).Msg("Failed to open database connection")
		return nil, err
	}

	// Check we are actually connected
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Error().Err(err).Msg("Database connection failed during ping")
		return nil, err
	}

	return &BoardDB{
		DB:  db,
		Log: log,
	}, nil
}

func (b *BoardDB) Close() error {
	if err := b.DB.Close(); err != nil {
		return err
	}
	b.Log.Info().Msg("database connection closed")
	b.DB = nil

	return nil
}

// Migrate runs the embedded goose migrations.
func (b *BoardDB) Migrate() error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("error setting goose dialect: %w", err)
	}

	if err := goose.Up(b.DB, "migrations"); err != nil {
		return fmt.Errorf("error running migrations: %w", err)
	}

	return nil
}
