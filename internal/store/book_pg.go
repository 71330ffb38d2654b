package store

// Repository implementation (Postgres)

import (
	"context"
	"errors"

	"bookreviews/internal/entity"
	"bookreviews/internal/usecase"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookPG struct {
	db *pgxpool.Pool
}

func NewBookPG(db *pgxpool.Pool) *BookPG {
	return &BookPG{db: db}
}

func (r *BookPG) GetByID(ctx context.Context, id int64) (entity.Book, error) {
	const query = `
	SELECT id, isbn, title, author, year
	FROM books WHERE id = $1 LIMIT 1
	`
	return r.scanOne(ctx, query, id)
}

func (r *BookPG) GetByISBN(ctx context.Context, isbn string) (entity.Book, error) {
	// The catalog does not enforce isbn uniqueness; take the lowest id.
	const query = `
	SELECT id, isbn, title, author, year
	FROM books WHERE isbn = $1
	ORDER BY id LIMIT 1
	`
	return r.scanOne(ctx, query, isbn)
}

func (r *BookPG) Search(ctx context.Context, q string) ([]entity.Book, error) {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select("id", "isbn", "title", "author", "year").
		From("books").
		OrderBy("title", "id")

	if q != "" {
		pattern := "%" + q + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{"title": pattern},
			sq.ILike{"isbn": pattern},
			sq.ILike{"author": pattern},
		})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []entity.Book
	for rows.Next() {
		var b entity.Book
		if err := rows.Scan(&b.ID, &b.ISBN, &b.Title, &b.Author, &b.Year); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (r *BookPG) scanOne(ctx context.Context, query string, arg any) (entity.Book, error) {
	var b entity.Book
	err := r.db.QueryRow(ctx, query, arg).Scan(&b.ID, &b.ISBN, &b.Title, &b.Author, &b.Year)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Book{}, usecase.ErrNotFound
		}
		return entity.Book{}, err
	}
	return b, nil
}
