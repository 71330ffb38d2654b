package store

import (
	"context"
	"errors"

	"bookreviews/internal/entity"
	"bookreviews/internal/usecase"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SessionPG struct {
	db *pgxpool.Pool
}

func NewSessionPG(db *pgxpool.Pool) *SessionPG {
	return &SessionPG{db: db}
}

func (r *SessionPG) Create(ctx context.Context, session *entity.Session) error {
	const query = `
	INSERT INTO sessions (id, token_hash, user_id, expires_at)
	VALUES ($1, $2, $3, $4)
	RETURNING id, created_at
	`
	return r.db.QueryRow(ctx, query,
		uuid.New().String(),
		session.TokenHash,
		session.UserID,
		session.ExpiresAt,
	).Scan(&session.ID, &session.CreatedAt)
}

func (r *SessionPG) GetByTokenHash(ctx context.Context, tokenHash string) (entity.Session, error) {
	const query = `
	SELECT id, token_hash, user_id, expires_at, created_at
	FROM sessions
	WHERE token_hash = $1 AND expires_at > now()
	LIMIT 1
	`
	var session entity.Session
	err := r.db.QueryRow(ctx, query, tokenHash).Scan(
		&session.ID,
		&session.TokenHash,
		&session.UserID,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Session{}, usecase.ErrNotFound
		}
		return entity.Session{}, err
	}
	return session, nil
}

func (r *SessionPG) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	const query = `DELETE FROM sessions WHERE token_hash = $1`
	_, err := r.db.Exec(ctx, query, tokenHash)
	return err
}

func (r *SessionPG) CleanupExpired(ctx context.Context) error {
	const query = `DELETE FROM sessions WHERE expires_at < now()`
	_, err := r.db.Exec(ctx, query)
	return err
}
