package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/vrsandeep/animelist/internal/config"
	"github.com/vrsandeep/animelist/internal/logging"
	"github.com/vrsandeep/animelist/internal/models"
)

const defaultPageLimit = 12

// statusError is a non-2xx response from the catalog.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("catalog returned status %d", e.code)
}

// abandonedError is a request cut short by its caller's context. It says
// nothing about the catalog's health.
type abandonedError struct {
	err error
}

func (e *abandonedError) Error() string { return e.err.Error() }
func (e *abandonedError) Unwrap() error { return e.err }

// JikanClient implements Client against the Jikan v4 REST API.
// It is safe for concurrent use; the limiter spaces requests across all callers.
type JikanClient struct {
	client       *http.Client
	baseURL      string
	pageLimit    int
	bulkInterval time.Duration
	limiter      *rate.Limiter
	cache        *lru.Cache[string, []models.Anime]
	breaker      *gobreaker.CircuitBreaker[[]byte]
	log          zerolog.Logger
}

// NewJikan creates a JikanClient from the catalog configuration.
func NewJikan(cfg config.CatalogConfig) *JikanClient {
	pageLimit := cfg.PageLimit
	if pageLimit <= 0 {
		pageLimit = defaultPageLimit
	}

	limit := rate.Inf
	if cfg.MinInterval() > 0 {
		limit = rate.Every(cfg.MinInterval())
	}

	c := &JikanClient{
		client:       &http.Client{Timeout: 20 * time.Second},
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		pageLimit:    pageLimit,
		bulkInterval: cfg.BulkInterval(),
		limiter:      rate.NewLimiter(limit, 1),
		log:          logging.With().Str("component", "catalog").Logger(),
	}

	if cfg.CacheSize > 0 {
		// lru.New only fails for a non-positive size.
		c.cache, _ = lru.New[string, []models.Anime](cfg.CacheSize)
	}

	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "jikan",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// 4xx other than 429 and abandoned requests are not outages.
		IsSuccessful: func(err error) bool {
			var ae *abandonedError
			if errors.As(err, &ae) {
				return true
			}
			var se *statusError
			if errors.As(err, &se) {
				return se.code < 500 && se.code != http.StatusTooManyRequests
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Catalog circuit breaker state change")
		},
	})
	return c
}

// Search sends a title search to the catalog. Errors are logged and read as no results.
func (c *JikanClient) Search(ctx context.Context, query string) []models.Anime {
	records, _ := c.search(ctx, query)
	return records
}

// Hydrate resolves titles one at a time, pausing bulkInterval between remote lookups.
func (c *JikanClient) Hydrate(ctx context.Context, titles []string) []Match {
	return hydrate(ctx, titles, c.bulkInterval, c.search)
}

// Get fetches a single anime by its MyAnimeList id.
func (c *JikanClient) Get(ctx context.Context, malID int) (*models.Anime, bool) {
	body, err := c.fetch(ctx, fmt.Sprintf("%s/anime/%d", c.baseURL, malID))
	if err != nil {
		c.log.Warn().Err(err).Int("mal_id", malID).Msg("Error getting anime details")
		return nil, false
	}

	var payload struct {
		Data *models.Anime `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		c.log.Warn().Err(err).Int("mal_id", malID).Msg("Malformed anime details payload")
		return nil, false
	}
	if payload.Data == nil || payload.Data.MalID == 0 {
		return nil, false
	}
	return payload.Data, true
}

func (c *JikanClient) search(ctx context.Context, query string) ([]models.Anime, bool) {
	key := strings.ToLower(strings.TrimSpace(query))
	if c.cache != nil {
		if records, ok := c.cache.Get(key); ok {
			return records, false
		}
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("sfw", "true")
	q.Set("limit", strconv.Itoa(c.pageLimit))

	body, err := c.fetch(ctx, c.baseURL+"/anime?"+q.Encode())
	if err != nil {
		c.log.Warn().Err(err).Str("query", query).Msg("Error searching anime")
		return []models.Anime{}, true
	}

	var payload struct {
		Data []models.Anime `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		c.log.Warn().Err(err).Str("query", query).Msg("Malformed search payload")
		return []models.Anime{}, true
	}

	records := payload.Data
	if records == nil {
		records = []models.Anime{}
	}
	if len(records) > c.pageLimit {
		records = records[:c.pageLimit]
	}
	if c.cache != nil && len(records) > 0 {
		c.cache.Add(key, records)
	}
	return records, true
}

// fetch waits for the rate limiter and performs a GET through the circuit breaker.
func (c *JikanClient) fetch(ctx context.Context, endpoint string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	return c.breaker.Execute(func() ([]byte, error) {
		body, err := c.get(ctx, endpoint)
		if err != nil && ctx.Err() != nil {
			return nil, &abandonedError{err: err}
		}
		return body, err
	})
}

func (c *JikanClient) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, &statusError{code: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}
