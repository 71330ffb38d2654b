package entity

type Review struct {
	ID     int64  `json:"id"`
	Rating int    `json:"rating"`
	Body   string `json:"body"`
	UserID int64  `json:"user_id"`
	BookID int64  `json:"book_id"`

	// ReviewerName is joined in on reads; it is not a column of reviews.
	ReviewerName string `json:"reviewer_name,omitempty"`
}

// ReviewStats is the aggregate shape served by the book API.
type ReviewStats struct {
	Count   int     `json:"review_count"`
	Average float64 `json:"average_score"`
}
