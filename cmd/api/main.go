package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	apphttp "bookreviews/internal/http"
	"bookreviews/internal/httpx"
	"bookreviews/internal/platform/goodreads"
	"bookreviews/internal/session"
	"bookreviews/internal/store"
	"bookreviews/internal/view"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env.local")

	serverAddress := getEnv("APP_ADDR", ":8080")
	databaseDSN := mustGetEnv("DB_DSN")
	ratingsBaseURL := getEnv("RATINGS_API_URL", goodreads.DefaultBaseURL)
	ratingsKey := os.Getenv("RATINGS_API_KEY")

	dbPool := mustOpenDB(databaseDSN)
	defer dbPool.Close()

	views, err := view.New()
	if err != nil {
		log.Fatalf("cannot parse templates: %v", err)
	}

	userRepository := store.NewUserPG(dbPool)
	bookRepository := store.NewBookPG(dbPool)
	reviewRepository := store.NewReviewPG(dbPool)
	sessionRepository := store.NewSessionPG(dbPool)

	sessionManager := session.NewManager(sessionRepository)

	var ratingsClient apphttp.RatingsClient
	if c := goodreads.NewClient(ratingsBaseURL, ratingsKey, 1); c != nil {
		ratingsClient = c
	} else {
		log.Println("RATINGS_API_KEY not set, detail pages will skip enrichment")
	}

	ensureSchema := func(ctx context.Context) error {
		return store.EnsureSchema(ctx, dbPool)
	}

	pageHandler := apphttp.NewPageHandler(userRepository, ensureSchema, views)
	authHandler := apphttp.NewAuthHandler(userRepository, sessionManager, views)
	bookHandler := apphttp.NewBookHandler(bookRepository, reviewRepository, ratingsClient, views)
	apiHandler := apphttp.NewAPIHandler(bookRepository, reviewRepository)

	router := http.NewServeMux()

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := dbPool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.HandleFunc("/", pageHandler.Landing)
	router.HandleFunc("/login", authHandler.Login)
	router.HandleFunc("/register", authHandler.Register)
	router.HandleFunc("/logout", authHandler.Logout)
	router.HandleFunc("/search", bookHandler.Search)
	router.HandleFunc("/book/", bookHandler.Detail)
	router.HandleFunc("/review/", bookHandler.SubmitReview)
	router.HandleFunc("/api/", apiHandler.GetByISBN)

	handler := httpx.RequestIDMiddleware(
		sessionManager.Middleware(
			httpx.AccessLogMiddleware(
				httpx.RecoveryMiddleware(router),
			),
		),
	)

	httpServer := &http.Server{
		Addr:         serverAddress,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Starting server on %s", serverAddress)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func mustGetEnv(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	log.Fatalf("missing required environment variable: %s", key)
	return ""
}

func mustOpenDB(dsn string) *pgxpool.Pool {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("cannot create db pool: %v", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		log.Fatalf("cannot ping database (%s): %v", redactDSN(dsn), err)
	}
	log.Println("database connection OK")
	return pool
}

func redactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
