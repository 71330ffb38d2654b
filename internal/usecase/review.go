package usecase

import (
	"context"

	"bookreviews/internal/entity"
)

type ReviewRepository interface {
	// Create inserts the review and reports whether a row was actually
	// written. It returns (false, nil) when the (user, book) pair already
	// has a review.
	Create(ctx context.Context, rev *entity.Review) (bool, error)
	ListByBook(ctx context.Context, bookID int64) ([]entity.Review, error)
	StatsByBook(ctx context.Context, bookID int64) (entity.ReviewStats, error)
}
