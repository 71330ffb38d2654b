package http

import (
	"errors"
	"net/http"
	"strings"

	"bookreviews/internal/httpx"
	"bookreviews/internal/usecase"
)

type APIHandler struct {
	books   usecase.BookRepository
	reviews usecase.ReviewRepository
}

func NewAPIHandler(books usecase.BookRepository, reviews usecase.ReviewRepository) *APIHandler {
	return &APIHandler{books: books, reviews: reviews}
}

// GetByISBN serves GET /api/{isbn} as JSON. average_score is 0 when the
// book has no reviews.
func (h *APIHandler) GetByISBN(w http.ResponseWriter, r *http.Request) {
	const prefix = "/api/"
	isbn := strings.TrimPrefix(r.URL.Path, prefix)
	if isbn == "" || strings.Contains(isbn, "/") {
		http.NotFound(w, r)
		return
	}

	book, err := h.books.GetByISBN(r.Context(), isbn)
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "ISBN not in database.")
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "server error")
		return
	}

	stats, err := h.reviews.StatsByBook(r.Context(), book.ID)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "server error")
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"title":         book.Title,
		"author":        book.Author,
		"year":          book.Year,
		"isbn":          book.ISBN,
		"review_count":  stats.Count,
		"average_score": stats.Average,
	})
}
