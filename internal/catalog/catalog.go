// Package catalog resolves anime titles against the public catalog.
//
// Two implementations satisfy Client: JikanClient talks to the Jikan v4 API
// with request pacing, MockClient serves a fixed in-memory catalog for offline
// and demo use. The variant is chosen once by New.
package catalog

import (
	"context"
	"time"

	"github.com/vrsandeep/animelist/internal/config"
	"github.com/vrsandeep/animelist/internal/models"
)

// Client is the contract every catalog backend implements. Failures never
// surface as errors: a failed lookup reads as "no match".
type Client interface {
	// Search returns at most the configured page size of records, catalog-ranked.
	Search(ctx context.Context, query string) []models.Anime
	// Get fetches one record by catalog id.
	Get(ctx context.Context, malID int) (*models.Anime, bool)
	// Hydrate resolves each title to its top search hit, in input order.
	// Titles without a hit produce no Match.
	Hydrate(ctx context.Context, titles []string) []Match
}

// Match ties a hydrated record to the input title that produced it.
type Match struct {
	Index  int // position of Title in the Hydrate input
	Title  string
	Record models.Anime
}

// New builds the catalog client selected by cfg.
func New(cfg config.CatalogConfig) Client {
	if cfg.Offline {
		return NewMock(cfg.PageLimit, DemoCatalog()...)
	}
	return NewJikan(cfg)
}

// BulkHydrate returns the matched records only, in input order. The result may be
// shorter than titles; use Hydrate when the source title must be known.
func BulkHydrate(ctx context.Context, c Client, titles []string) []models.Anime {
	matches := c.Hydrate(ctx, titles)
	records := make([]models.Anime, 0, len(matches))
	for _, m := range matches {
		records = append(records, m.Record)
	}
	return records
}

// lookupFunc searches one title; network reports whether a remote call was made.
type lookupFunc func(ctx context.Context, title string) (records []models.Anime, network bool)

// hydrate runs lookup for every title sequentially, pausing between remote lookups.
func hydrate(ctx context.Context, titles []string, pause time.Duration, lookup lookupFunc) []Match {
	matches := make([]Match, 0, len(titles))
	for i, title := range titles {
		if ctx.Err() != nil {
			break
		}
		records, network := lookup(ctx, title)
		if len(records) > 0 {
			matches = append(matches, Match{Index: i, Title: title, Record: records[0]})
		}
		if network && pause > 0 && i < len(titles)-1 {
			if !sleep(ctx, pause) {
				break
			}
		}
	}
	return matches
}

// sleep waits for d or until ctx is done. It reports whether the full wait elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
