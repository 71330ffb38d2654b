package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the tables if they are absent. The landing page
// calls it on every hit as a deployment convenience; real schema changes
// go through cmd/migrate.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS users (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		email TEXT NOT NULL,
		name TEXT NOT NULL,
		password_hash TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS books (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		isbn TEXT NOT NULL,
		title TEXT NOT NULL,
		author TEXT NOT NULL,
		year INT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS reviews (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		rating INT NOT NULL,
		body TEXT NOT NULL,
		user_id BIGINT NOT NULL REFERENCES users (id),
		book_id BIGINT NOT NULL REFERENCES books (id),
		UNIQUE (user_id, book_id)
	);
	CREATE TABLE IF NOT EXISTS sessions (
		id UUID PRIMARY KEY,
		token_hash TEXT NOT NULL,
		user_id BIGINT NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`
	_, err := db.Exec(ctx, ddl)
	return err
}
