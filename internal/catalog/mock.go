package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/vrsandeep/animelist/internal/models"
)

// MockClient implements Client over a fixed in-memory catalog for development,
// demo mode and tests. It never touches the network.
type MockClient struct {
	pageLimit int
	records   []models.Anime
}

// NewMock returns a catalog serving records. A mock with no records answers
// every search with an empty result.
func NewMock(pageLimit int, records ...models.Anime) *MockClient {
	if pageLimit <= 0 {
		pageLimit = defaultPageLimit
	}
	return &MockClient{pageLimit: pageLimit, records: records}
}

// Search does a case-insensitive substring match on titles.
func (m *MockClient) Search(ctx context.Context, query string) []models.Anime {
	needle := strings.ToLower(strings.TrimSpace(query))
	results := []models.Anime{}
	for _, r := range m.records {
		if needle != "" && strings.Contains(strings.ToLower(r.Title), needle) {
			results = append(results, r)
			if len(results) == m.pageLimit {
				break
			}
		}
	}
	return results
}

// Get returns the record with the given MyAnimeList id.
func (m *MockClient) Get(ctx context.Context, malID int) (*models.Anime, bool) {
	for _, r := range m.records {
		if r.MalID == malID {
			found := r
			return &found, true
		}
	}
	return nil, false
}

// Hydrate resolves titles in order without pausing between lookups.
func (m *MockClient) Hydrate(ctx context.Context, titles []string) []Match {
	return hydrate(ctx, titles, 0, func(ctx context.Context, title string) ([]models.Anime, bool) {
		return m.Search(ctx, title), false
	})
}

func demoRecord(id int, title, synopsis string, episodes int, score float64, genres ...string) models.Anime {
	a := models.Anime{
		MalID:    id,
		Title:    title,
		Synopsis: synopsis,
		Episodes: &episodes,
		Score:    &score,
	}
	cover := fmt.Sprintf("https://placehold.co/225x320/2a2a2a/f0f0f0?text=%s", url.QueryEscape(title))
	a.Images.JPG.ImageURL = cover
	a.Images.JPG.LargeImageURL = cover
	for _, g := range genres {
		a.Genres = append(a.Genres, models.Genre{Name: g})
	}
	return a
}

// DemoCatalog returns the records served in offline mode. It covers every title
// the demo recommendation model proposes.
func DemoCatalog() []models.Anime {
	return []models.Anime{
		demoRecord(1, "Cowboy Bebop",
			"In the year 2071, a ragtag crew of bounty hunters chases criminals across the solar system.",
			26, 8.75, "Action", "Award Winning", "Sci-Fi"),
		demoRecord(5114, "Fullmetal Alchemist: Brotherhood",
			"Two brothers search for the Philosopher's Stone after a failed attempt to revive their mother.",
			64, 9.1, "Action", "Adventure", "Drama", "Fantasy"),
		demoRecord(9253, "Steins;Gate",
			"A self-proclaimed mad scientist discovers a way to send messages to the past.",
			24, 9.07, "Drama", "Sci-Fi", "Suspense"),
		demoRecord(1535, "Death Note",
			"A high school student finds a notebook that kills anyone whose name is written in it.",
			37, 8.62, "Supernatural", "Suspense"),
		demoRecord(16498, "Shingeki no Kyojin",
			"Humanity fights for survival behind giant walls against man-eating Titans.",
			25, 8.55, "Action", "Award Winning", "Drama", "Suspense"),
		demoRecord(457, "Mushishi",
			"A wandering mushi master studies the primitive life forms that trouble humans.",
			26, 8.66, "Adventure", "Mystery", "Slice of Life", "Supernatural"),
	}
}
