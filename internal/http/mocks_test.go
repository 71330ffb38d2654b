package http

import (
	"context"

	"bookreviews/internal/entity"
	"bookreviews/internal/platform/goodreads"
	"bookreviews/internal/usecase"

	"github.com/stretchr/testify/mock"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *entity.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (entity.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(entity.User), args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (entity.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entity.User), args.Error(1)
}

type mockBookRepo struct {
	mock.Mock
}

func (m *mockBookRepo) GetByID(ctx context.Context, id int64) (entity.Book, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entity.Book), args.Error(1)
}

func (m *mockBookRepo) GetByISBN(ctx context.Context, isbn string) (entity.Book, error) {
	args := m.Called(ctx, isbn)
	return args.Get(0).(entity.Book), args.Error(1)
}

func (m *mockBookRepo) Search(ctx context.Context, q string) ([]entity.Book, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Book), args.Error(1)
}

type mockReviewRepo struct {
	mock.Mock
}

func (m *mockReviewRepo) Create(ctx context.Context, rev *entity.Review) (bool, error) {
	args := m.Called(ctx, rev)
	return args.Bool(0), args.Error(1)
}

func (m *mockReviewRepo) ListByBook(ctx context.Context, bookID int64) ([]entity.Review, error) {
	args := m.Called(ctx, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Review), args.Error(1)
}

func (m *mockReviewRepo) StatsByBook(ctx context.Context, bookID int64) (entity.ReviewStats, error) {
	args := m.Called(ctx, bookID)
	return args.Get(0).(entity.ReviewStats), args.Error(1)
}

type mockRatingsClient struct {
	mock.Mock
}

func (m *mockRatingsClient) ReviewCounts(ctx context.Context, isbn string) (*goodreads.ReviewCounts, error) {
	args := m.Called(ctx, isbn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*goodreads.ReviewCounts), args.Error(1)
}

// fakeSessionRepo is an in-memory usecase.SessionRepository so handler
// tests can run a real session.Manager.
type fakeSessionRepo struct {
	byHash map[string]entity.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{byHash: make(map[string]entity.Session)}
}

func (f *fakeSessionRepo) Create(ctx context.Context, s *entity.Session) error {
	s.ID = "fake-session-id"
	f.byHash[s.TokenHash] = *s
	return nil
}

func (f *fakeSessionRepo) GetByTokenHash(ctx context.Context, tokenHash string) (entity.Session, error) {
	if s, ok := f.byHash[tokenHash]; ok {
		return s, nil
	}
	return entity.Session{}, usecase.ErrNotFound
}

func (f *fakeSessionRepo) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	delete(f.byHash, tokenHash)
	return nil
}

func (f *fakeSessionRepo) CleanupExpired(ctx context.Context) error { return nil }

// fakeUserRepo backs the register-then-login flow test.
type fakeUserRepo struct {
	nextID int64
	byID   map[int64]entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[int64]entity.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *entity.User) error {
	f.nextID++
	u.ID = f.nextID
	f.byID[u.ID] = *u
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (entity.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return entity.User{}, usecase.ErrNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (entity.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return entity.User{}, usecase.ErrNotFound
}
