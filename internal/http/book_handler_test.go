package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"bookreviews/internal/entity"
	"bookreviews/internal/httpx"
	"bookreviews/internal/platform/goodreads"
	"bookreviews/internal/testutil"
	"bookreviews/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testBook = entity.Book{
	ID:     42,
	ISBN:   "0000",
	Title:  "Test Book Title",
	Author: "Test Author",
	Year:   2000,
}

func TestBookHandler_Search(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		setupMock    func(books *mockBookRepo)
		wantStatus   int
		wantBodyPart string
	}{
		{
			name:  "matches render the list",
			query: "test",
			setupMock: func(books *mockBookRepo) {
				books.On("Search", mock.Anything, "test").Return([]entity.Book{testBook}, nil)
			},
			wantStatus:   http.StatusOK,
			wantBodyPart: "Test Book Title",
		},
		{
			name:  "no matches render the error view",
			query: "zzzz",
			setupMock: func(books *mockBookRepo) {
				books.On("Search", mock.Anything, "zzzz").Return([]entity.Book{}, nil)
			},
			wantStatus:   http.StatusOK,
			wantBodyPart: "No books matched your query.",
		},
		{
			name:  "empty query searches everything",
			query: "",
			setupMock: func(books *mockBookRepo) {
				books.On("Search", mock.Anything, "").Return([]entity.Book{testBook}, nil)
			},
			wantStatus:   http.StatusOK,
			wantBodyPart: "Test Book Title",
		},
		{
			name:  "repository error renders 500",
			query: "test",
			setupMock: func(books *mockBookRepo) {
				books.On("Search", mock.Anything, "test").Return(nil, context.DeadlineExceeded)
			},
			wantStatus:   http.StatusInternalServerError,
			wantBodyPart: "temporarily unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			books := new(mockBookRepo)
			tt.setupMock(books)
			handler := NewBookHandler(books, new(mockReviewRepo), nil, newTestViews(t))

			w := httptest.NewRecorder()
			handler.Search(w, testutil.NewFormRequest(http.MethodPost, "/search",
				url.Values{"search": {tt.query}}))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.True(t, testutil.BodyContains(w, tt.wantBodyPart))
			books.AssertExpectations(t)
		})
	}
}

func TestBookHandler_Detail(t *testing.T) {
	t.Run("unknown id renders the not-found view", func(t *testing.T) {
		books := new(mockBookRepo)
		books.On("GetByID", mock.Anything, int64(99)).Return(entity.Book{}, usecase.ErrNotFound)
		handler := NewBookHandler(books, new(mockReviewRepo), nil, newTestViews(t))

		w := httptest.NewRecorder()
		handler.Detail(w, httptest.NewRequest(http.MethodGet, "/book/99", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, testutil.BodyContains(w, "The book was not found."))
	})

	t.Run("non-numeric id renders the not-found view", func(t *testing.T) {
		handler := NewBookHandler(new(mockBookRepo), new(mockReviewRepo), nil, newTestViews(t))

		w := httptest.NewRecorder()
		handler.Detail(w, httptest.NewRequest(http.MethodGet, "/book/abc", nil))

		assert.True(t, testutil.BodyContains(w, "The book was not found."))
	})

	t.Run("plain view without a ratings client", func(t *testing.T) {
		books := new(mockBookRepo)
		books.On("GetByID", mock.Anything, int64(42)).Return(testBook, nil)
		reviews := new(mockReviewRepo)
		reviews.On("ListByBook", mock.Anything, int64(42)).Return([]entity.Review{
			{ID: 1, Rating: 5, Body: "ok", UserID: 7, BookID: 42, ReviewerName: "Carol"},
		}, nil)
		handler := NewBookHandler(books, reviews, nil, newTestViews(t))

		w := httptest.NewRecorder()
		handler.Detail(w, httptest.NewRequest(http.MethodGet, "/book/42", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, testutil.BodyContains(w, "Carol"))
		assert.False(t, testutil.BodyContains(w, "External rating"))
	})

	t.Run("enriched view when the ratings lookup succeeds", func(t *testing.T) {
		books := new(mockBookRepo)
		books.On("GetByID", mock.Anything, int64(42)).Return(testBook, nil)
		reviews := new(mockReviewRepo)
		reviews.On("ListByBook", mock.Anything, int64(42)).Return([]entity.Review{}, nil)
		ratings := new(mockRatingsClient)
		ratings.On("ReviewCounts", mock.Anything, "0000").
			Return(&goodreads.ReviewCounts{AverageRating: 4.2, RatingsCount: 1234}, nil)
		handler := NewBookHandler(books, reviews, ratings, newTestViews(t))

		w := httptest.NewRecorder()
		handler.Detail(w, httptest.NewRequest(http.MethodGet, "/book/42", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, testutil.BodyContains(w, "External rating"))
		assert.True(t, testutil.BodyContains(w, "1234"))
	})

	t.Run("ratings failure falls back to the plain view", func(t *testing.T) {
		books := new(mockBookRepo)
		books.On("GetByID", mock.Anything, int64(42)).Return(testBook, nil)
		reviews := new(mockReviewRepo)
		reviews.On("ListByBook", mock.Anything, int64(42)).Return([]entity.Review{}, nil)
		ratings := new(mockRatingsClient)
		ratings.On("ReviewCounts", mock.Anything, "0000").
			Return(nil, context.DeadlineExceeded)
		handler := NewBookHandler(books, reviews, ratings, newTestViews(t))

		w := httptest.NewRecorder()
		handler.Detail(w, httptest.NewRequest(http.MethodGet, "/book/42", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, testutil.BodyContains(w, "Test Book Title"))
		assert.False(t, testutil.BodyContains(w, "External rating"))
	})
}

func TestBookHandler_SubmitReview(t *testing.T) {
	form := url.Values{"form_review_rating": {"5"}, "form_review_text": {"ok"}}

	t.Run("unauthenticated is rejected", func(t *testing.T) {
		handler := NewBookHandler(new(mockBookRepo), new(mockReviewRepo), nil, newTestViews(t))

		w := httptest.NewRecorder()
		handler.SubmitReview(w, testutil.NewFormRequest(http.MethodPost, "/review/42", form))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.True(t, testutil.BodyContains(w, "You must be logged in to post a review."))
	})

	t.Run("first review is persisted", func(t *testing.T) {
		books := new(mockBookRepo)
		books.On("GetByID", mock.Anything, int64(42)).Return(testBook, nil)
		reviews := new(mockReviewRepo)
		reviews.On("Create", mock.Anything, &entity.Review{
			Rating: 5, Body: "ok", UserID: 7, BookID: 42,
		}).Return(true, nil)
		reviews.On("ListByBook", mock.Anything, int64(42)).Return([]entity.Review{
			{ID: 1, Rating: 5, Body: "ok", UserID: 7, BookID: 42, ReviewerName: "Carol"},
		}, nil)
		handler := NewBookHandler(books, reviews, nil, newTestViews(t))

		r := testutil.NewFormRequest(http.MethodPost, "/review/42", form)
		r = r.WithContext(httpx.ContextWithUser(r.Context(), 7))
		w := httptest.NewRecorder()
		handler.SubmitReview(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, testutil.BodyContains(w, "ok"))
		reviews.AssertExpectations(t)
	})

	t.Run("duplicate review is silently skipped", func(t *testing.T) {
		books := new(mockBookRepo)
		books.On("GetByID", mock.Anything, int64(42)).Return(testBook, nil)
		reviews := new(mockReviewRepo)
		reviews.On("Create", mock.Anything, mock.Anything).Return(false, nil)
		reviews.On("ListByBook", mock.Anything, int64(42)).Return([]entity.Review{
			{ID: 1, Rating: 3, Body: "earlier take", UserID: 7, BookID: 42, ReviewerName: "Carol"},
		}, nil)
		handler := NewBookHandler(books, reviews, nil, newTestViews(t))

		r := testutil.NewFormRequest(http.MethodPost, "/review/42", form)
		r = r.WithContext(httpx.ContextWithUser(r.Context(), 7))
		w := httptest.NewRecorder()
		handler.SubmitReview(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, testutil.BodyContains(w, "earlier take"))
	})

	t.Run("out-of-range rating re-renders without inserting", func(t *testing.T) {
		books := new(mockBookRepo)
		books.On("GetByID", mock.Anything, int64(42)).Return(testBook, nil)
		reviews := new(mockReviewRepo)
		reviews.On("ListByBook", mock.Anything, int64(42)).Return([]entity.Review{}, nil)
		handler := NewBookHandler(books, reviews, nil, newTestViews(t))

		r := testutil.NewFormRequest(http.MethodPost, "/review/42",
			url.Values{"form_review_rating": {"11"}, "form_review_text": {"nope"}})
		r = r.WithContext(httpx.ContextWithUser(r.Context(), 7))
		w := httptest.NewRecorder()
		handler.SubmitReview(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		reviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unknown book renders the not-found view", func(t *testing.T) {
		books := new(mockBookRepo)
		books.On("GetByID", mock.Anything, int64(99)).Return(entity.Book{}, usecase.ErrNotFound)
		handler := NewBookHandler(books, new(mockReviewRepo), nil, newTestViews(t))

		r := testutil.NewFormRequest(http.MethodPost, "/review/99", form)
		r = r.WithContext(httpx.ContextWithUser(r.Context(), 7))
		w := httptest.NewRecorder()
		handler.SubmitReview(w, r)

		assert.True(t, testutil.BodyContains(w, "The book was not found."))
	})
}

func TestPathID(t *testing.T) {
	tests := []struct {
		path   string
		prefix string
		wantID int64
		wantOK bool
	}{
		{"/book/42", "/book/", 42, true},
		{"/book/abc", "/book/", 0, false},
		{"/book/", "/book/", 0, false},
		{"/book/42/extra", "/book/", 0, false},
		{"/book/-1", "/book/", 0, false},
		{"/review/7", "/review/", 7, true},
	}
	for _, tt := range tests {
		id, ok := pathID(tt.path, tt.prefix)
		require.Equal(t, tt.wantOK, ok, tt.path)
		assert.Equal(t, tt.wantID, id, tt.path)
	}
}
