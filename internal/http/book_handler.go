package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"bookreviews/internal/entity"
	"bookreviews/internal/httpx"
	"bookreviews/internal/platform/goodreads"
	"bookreviews/internal/usecase"
	"bookreviews/internal/view"

	"github.com/samber/lo"
)

// RatingsClient is the optional external enrichment dependency. A nil
// client means the detail page renders from local data only.
type RatingsClient interface {
	ReviewCounts(ctx context.Context, isbn string) (*goodreads.ReviewCounts, error)
}

type BookHandler struct {
	books   usecase.BookRepository
	reviews usecase.ReviewRepository
	ratings RatingsClient
	views   *view.Renderer
}

func NewBookHandler(books usecase.BookRepository, reviews usecase.ReviewRepository, ratings RatingsClient, views *view.Renderer) *BookHandler {
	return &BookHandler{
		books:   books,
		reviews: reviews,
		ratings: ratings,
		views:   views,
	}
}

type reviewRow struct {
	Reviewer string
	Rating   int
	Body     string
}

type bookPage struct {
	Book     entity.Book
	Reviews  []reviewRow
	External *goodreads.ReviewCounts
}

// Search lists every book whose title, ISBN or author contains the search
// text, case-insensitively. An absent field matches the whole catalog.
func (h *BookHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.PostFormValue("search")
	if q == "" {
		q = r.URL.Query().Get("search")
	}

	books, err := h.books.Search(r.Context(), q)
	if err != nil {
		h.serverError(w, "search books", err)
		return
	}
	if len(books) == 0 {
		h.views.Render(w, http.StatusOK, "error.html", map[string]string{
			"Message": "No books matched your query.",
		})
		return
	}

	h.views.Render(w, http.StatusOK, "books.html", map[string]any{"Books": books})
}

// Detail serves /book/{id}. The external rating lookup is best-effort:
// every failure falls back to the locally stored reviews.
func (h *BookHandler) Detail(w http.ResponseWriter, r *http.Request) {
	bookID, ok := pathID(r.URL.Path, "/book/")
	if !ok {
		h.notFoundBook(w)
		return
	}

	book, err := h.books.GetByID(r.Context(), bookID)
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			h.notFoundBook(w)
			return
		}
		h.serverError(w, "load book", err)
		return
	}

	h.renderDetail(w, r, book)
}

// SubmitReview serves POST /review/{id}. Each user gets one review per
// book; a repeat submission is dropped and the page re-renders with the
// existing reviews.
func (h *BookHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	userID := httpx.UserIDFrom(r)
	if userID == 0 {
		h.views.Render(w, http.StatusUnauthorized, "error.html", map[string]string{
			"Message": "You must be logged in to post a review.",
		})
		return
	}

	bookID, ok := pathID(r.URL.Path, "/review/")
	if !ok {
		h.notFoundBook(w)
		return
	}
	book, err := h.books.GetByID(r.Context(), bookID)
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			h.notFoundBook(w)
			return
		}
		h.serverError(w, "load book", err)
		return
	}

	rating, err := strconv.Atoi(r.PostFormValue("form_review_rating"))
	if err == nil && rating >= 1 && rating <= 5 {
		review := &entity.Review{
			Rating: rating,
			Body:   r.PostFormValue("form_review_text"),
			UserID: userID,
			BookID: book.ID,
		}
		if _, err := h.reviews.Create(r.Context(), review); err != nil {
			h.serverError(w, "create review", err)
			return
		}
	}

	h.renderDetail(w, r, book)
}

func (h *BookHandler) renderDetail(w http.ResponseWriter, r *http.Request, book entity.Book) {
	reviews, err := h.reviews.ListByBook(r.Context(), book.ID)
	if err != nil {
		h.serverError(w, "list reviews", err)
		return
	}

	page := bookPage{
		Book: book,
		Reviews: lo.Map(reviews, func(rv entity.Review, _ int) reviewRow {
			return reviewRow{Reviewer: rv.ReviewerName, Rating: rv.Rating, Body: rv.Body}
		}),
	}

	if h.ratings != nil {
		external, err := h.ratings.ReviewCounts(r.Context(), book.ISBN)
		if err != nil {
			log.Printf("ratings lookup failed: isbn=%s error=%v", book.ISBN, err)
		} else {
			page.External = external
		}
	}

	h.views.Render(w, http.StatusOK, "book.html", page)
}

func (h *BookHandler) notFoundBook(w http.ResponseWriter) {
	h.views.Render(w, http.StatusOK, "error.html", map[string]string{
		"Message": "The book was not found.",
	})
}

func (h *BookHandler) serverError(w http.ResponseWriter, op string, err error) {
	log.Printf("book handler: op=%s error=%v", op, err)
	h.views.Render(w, http.StatusInternalServerError, "error.html", map[string]string{
		"Message": "The service is temporarily unavailable.",
	})
}

// pathID extracts the trailing numeric path segment after prefix.
// net/http's ServeMux has no param support; this is the crude version.
func pathID(path, prefix string) (int64, bool) {
	if !strings.HasPrefix(path, prefix) {
		return 0, false
	}
	raw := strings.TrimPrefix(path, prefix)
	if raw == "" || strings.Contains(raw, "/") {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
