package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

// Loads the book catalog from a csv dump (isbn,title,author,year with a
// header row) into the books table. The application itself never creates
// books.
func main() {
	_ = godotenv.Load(".env.local")

	path := "books.csv"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN is not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		log.Fatalf("Failed to read %s: %v", path, err)
	}
	if len(records) < 2 {
		log.Fatalf("%s holds no book rows", path)
	}
	records = records[1:] // header

	log.Printf("Inserting %d books...", len(records))

	var sb strings.Builder
	args := make([]any, 0, len(records)*4)
	sb.WriteString("INSERT INTO books (isbn, title, author, year) VALUES ")
	for i, rec := range records {
		if len(rec) != 4 {
			log.Fatalf("row %d: want 4 columns, got %d", i+2, len(rec))
		}
		year, err := strconv.Atoi(rec[3])
		if err != nil {
			log.Fatalf("row %d: bad year %q: %v", i+2, rec[3], err)
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		n := i * 4
		sb.WriteString(fmt.Sprintf("($%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4))
		args = append(args, rec[0], rec[1], rec[2], year)
	}

	if _, err := pool.Exec(ctx, sb.String(), args...); err != nil {
		log.Fatalf("Failed to insert books: %v", err)
	}

	var total int
	pool.QueryRow(ctx, "SELECT COUNT(*) FROM books").Scan(&total)
	log.Printf("Done. Total books in database: %d", total)
}
