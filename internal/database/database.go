package database

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

func Connect() (*sql.DB, error) {
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "flashcards_user")
	password := getEnv("DB_PASSWORD", "flashcards_password")
	dbname := getEnv("DB_NAME", "flashcards")
	sslmode := getEnv("DB_SSLMODE", "disable")

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func Migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email VARCHAR(255) UNIQUE NOT NULL,
		name VARCHAR(255) NOT NULL,
		password VARCHAR(255) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);

	CREATE TABLE IF NOT EXISTS decks (
		id               UUID PRIMARY KEY,
		user_id          BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title            VARCHAR(255) NOT NULL,
		source_type      VARCHAR(20) NOT NULL DEFAULT 'generated',
		original_text    TEXT,
		created_at       TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		last_accessed_at TIMESTAMP WITH TIME ZONE
	);

	CREATE INDEX IF NOT EXISTS idx_decks_user ON decks(user_id);
	CREATE INDEX IF NOT EXISTS idx_decks_recency ON decks(user_id, last_accessed_at DESC NULLS LAST, created_at DESC);

	CREATE TABLE IF NOT EXISTS cards (
		id                    UUID PRIMARY KEY,
		deck_id               UUID NOT NULL REFERENCES decks(id) ON DELETE CASCADE,
		question              TEXT NOT NULL,
		answer                TEXT NOT NULL,
		question_type         VARCHAR(30) NOT NULL DEFAULT 'Identification',
		hint                  TEXT,
		options               JSONB NOT NULL DEFAULT '[]',
		tags                  JSONB NOT NULL DEFAULT '[]',
		easiness_factor       DOUBLE PRECISION NOT NULL DEFAULT 2.5,
		interval_days         INT NOT NULL DEFAULT 0,
		repetitions           INT NOT NULL DEFAULT 0,
		last_quality_response INT,
		last_reviewed_at      DATE,
		next_review_at        DATE,
		attempts              INT NOT NULL DEFAULT 0,
		correct_streak        INT NOT NULL DEFAULT 0,
		created_at            TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_cards_deck ON cards(deck_id);
	CREATE INDEX IF NOT EXISTS idx_cards_due ON cards(deck_id, next_review_at);

	CREATE TABLE IF NOT EXISTS profile_rollups (
		user_id      BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		total_cards  INT NOT NULL DEFAULT 0,
		mean_mastery DOUBLE PRECISION NOT NULL DEFAULT 0,
		due_count    INT NOT NULL DEFAULT 0,
		last_updated TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	`

	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
