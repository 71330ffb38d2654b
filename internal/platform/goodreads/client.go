// Package goodreads fetches third-party rating aggregates for a book. The
// lookup is best-effort enrichment only; callers must treat every error as
// "no external data" and carry on.
package goodreads

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://www.goodreads.com"

// RequestTimeout caps a single lookup so a slow dependency cannot stall the
// page that asked for it.
const RequestTimeout = 3 * time.Second

type Client struct {
	httpClient *http.Client
	baseURL    string
	key        string
	limiter    *rate.Limiter
}

// NewClient returns nil when key is empty: the enrichment path is simply
// disabled without a credential.
func NewClient(baseURL, key string, rps int) *Client {
	if key == "" {
		return nil
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: RequestTimeout,
		},
		baseURL: baseURL,
		key:     key,
		limiter: rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
	}
}

// ReviewCounts is the slice of the review_counts payload this application
// reads.
type ReviewCounts struct {
	AverageRating float64
	RatingsCount  int
}

// reviewCountsResponse matches book/review_counts.json. average_rating
// arrives as a decimal string.
type reviewCountsResponse struct {
	Books []struct {
		ISBN             string `json:"isbn"`
		AverageRating    string `json:"average_rating"`
		WorkRatingsCount int    `json:"work_ratings_count"`
	} `json:"books"`
}

func (c *Client) ReviewCounts(ctx context.Context, isbn string) (*ReviewCounts, error) {
	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/book/review_counts.json?key=%s&isbns=%s",
		c.baseURL, url.QueryEscape(c.key), url.QueryEscape(isbn))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var payload reviewCountsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if len(payload.Books) == 0 {
		return nil, fmt.Errorf("no rating data for isbn %s", isbn)
	}

	avg, err := strconv.ParseFloat(payload.Books[0].AverageRating, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed average_rating %q: %w", payload.Books[0].AverageRating, err)
	}

	return &ReviewCounts{
		AverageRating: avg,
		RatingsCount:  payload.Books[0].WorkRatingsCount,
	}, nil
}
