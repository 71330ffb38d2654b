package store

import (
	"context"
	"database/sql"

	"bookreviews/internal/entity"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ReviewPG struct {
	db *pgxpool.Pool
}

func NewReviewPG(db *pgxpool.Pool) *ReviewPG {
	return &ReviewPG{db: db}
}

// Create relies on the UNIQUE (user_id, book_id) constraint: a second
// review for the same pair is dropped by ON CONFLICT and reported as
// inserted == false.
func (r *ReviewPG) Create(ctx context.Context, rev *entity.Review) (bool, error) {
	const query = `
	INSERT INTO reviews (rating, body, user_id, book_id)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (user_id, book_id) DO NOTHING
	`
	tag, err := r.db.Exec(ctx, query, rev.Rating, rev.Body, rev.UserID, rev.BookID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ReviewPG) ListByBook(ctx context.Context, bookID int64) ([]entity.Review, error) {
	const query = `
	SELECT rv.id, rv.rating, rv.body, rv.user_id, rv.book_id, u.name
	FROM reviews rv
	JOIN users u ON u.id = rv.user_id
	WHERE rv.book_id = $1
	ORDER BY rv.id
	`
	rows, err := r.db.Query(ctx, query, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []entity.Review
	for rows.Next() {
		var rv entity.Review
		if err := rows.Scan(&rv.ID, &rv.Rating, &rv.Body, &rv.UserID, &rv.BookID, &rv.ReviewerName); err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

func (r *ReviewPG) StatsByBook(ctx context.Context, bookID int64) (entity.ReviewStats, error) {
	const query = `
	SELECT AVG(rating)::FLOAT, COUNT(*)
	FROM reviews
	WHERE book_id = $1
	`
	var average sql.NullFloat64
	var count int
	if err := r.db.QueryRow(ctx, query, bookID).Scan(&average, &count); err != nil {
		return entity.ReviewStats{}, err
	}
	if !average.Valid {
		// No reviews yet. Serve zero rather than dividing by zero.
		return entity.ReviewStats{Count: 0, Average: 0}, nil
	}
	return entity.ReviewStats{Count: count, Average: average.Float64}, nil
}
