package recommend

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vrsandeep/animelist/internal/catalog"
	"github.com/vrsandeep/animelist/internal/models"
)

type mockModel struct {
	mock.Mock
}

func (m *mockModel) Recommend(ctx context.Context, profile models.UserProfile, history []string, count int) []models.Candidate {
	args := m.Called(profile, history, count)
	return args.Get(0).([]models.Candidate)
}

func (m *mockModel) Demo() bool { return false }

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) Search(ctx context.Context, query string) []models.Anime {
	return m.Called(query).Get(0).([]models.Anime)
}

func (m *mockCatalog) Get(ctx context.Context, malID int) (*models.Anime, bool) {
	args := m.Called(malID)
	return args.Get(0).(*models.Anime), args.Bool(1)
}

func (m *mockCatalog) Hydrate(ctx context.Context, titles []string) []catalog.Match {
	return m.Called(titles).Get(0).([]catalog.Match)
}

func record(id int, title string) models.Anime {
	return models.Anime{MalID: id, Title: title}
}

func TestSynthesizePairsReasonWithSourceCandidate(t *testing.T) {
	profile := models.UserProfile{UID: "u1", Interests: []string{"Action"}}
	model := new(mockModel)
	model.On("Recommend", profile, []string{}, 4).Return([]models.Candidate{
		{Title: "A", Reason: "r1"},
		{Title: "B", Reason: "r2"},
	})
	// Only "B" exists in the catalog.
	cat := catalog.NewMock(12, record(2, "B"))

	got := NewSynthesizer(model, cat, 10, 4).Synthesize(context.Background(), profile, models.Watchlist{})

	assert.Equal(t, OutcomeOK, got.Outcome)
	require.Len(t, got.Results, 1)
	assert.Equal(t, 2, got.Results[0].Anime.MalID)
	assert.Equal(t, "r2", got.Results[0].Reason)
	model.AssertExpectations(t)
}

func TestSynthesizeUnavailableWhenModelIsEmpty(t *testing.T) {
	model := new(mockModel)
	model.On("Recommend", mock.Anything, mock.Anything, mock.Anything).Return([]models.Candidate{})
	cat := new(mockCatalog)

	got := NewSynthesizer(model, cat, 10, 4).Synthesize(context.Background(), models.UserProfile{}, nil)

	assert.Equal(t, OutcomeUnavailable, got.Outcome)
	assert.NotEmpty(t, got.Message)
	assert.Empty(t, got.Results)
	cat.AssertNotCalled(t, "Hydrate", mock.Anything)
}

func TestSynthesizeNoMatches(t *testing.T) {
	model := new(mockModel)
	model.On("Recommend", mock.Anything, mock.Anything, mock.Anything).Return([]models.Candidate{{Title: "Ghost", Reason: "r"}})

	got := NewSynthesizer(model, catalog.NewMock(12), 10, 4).Synthesize(context.Background(), models.UserProfile{}, nil)

	assert.Equal(t, OutcomeNoMatches, got.Outcome)
	assert.NotEqual(t, outcomeMessages[OutcomeUnavailable], got.Message)
	assert.NotNil(t, got.Results)
	assert.Empty(t, got.Results)
}

func TestSynthesizeFallbackReasonAndStatus(t *testing.T) {
	model := new(mockModel)
	model.On("Recommend", mock.Anything, mock.Anything, mock.Anything).Return([]models.Candidate{
		{Title: "Cowboy Bebop", Reason: "  "},
		{Title: "Bebop again", Reason: "dup"},
		{Title: "Mushishi", Reason: "quiet"},
	})
	cat := new(mockCatalog)
	cat.On("Hydrate", []string{"Cowboy Bebop", "Bebop again", "Mushishi"}).Return([]catalog.Match{
		{Index: 0, Title: "Cowboy Bebop", Record: record(1, "Cowboy Bebop")},
		{Index: 1, Title: "Bebop again", Record: record(1, "Cowboy Bebop")},
		{Index: 2, Title: "Mushishi", Record: record(457, "Mushishi")},
	})

	w := models.Watchlist{}
	track(t, w, record(457, "Mushishi"), models.StatusPlanToWatch, time.Now())

	got := NewSynthesizer(model, cat, 10, 4).Synthesize(context.Background(), models.UserProfile{}, w)

	require.Len(t, got.Results, 2, "duplicate catalog ids collapse")
	assert.Equal(t, "Recommended for you", got.Results[0].Reason)
	assert.Equal(t, models.Status(""), got.Results[0].CurrentStatus)
	assert.Equal(t, "quiet", got.Results[1].Reason)
	assert.Equal(t, models.StatusPlanToWatch, got.Results[1].CurrentStatus)
}

func TestSynthesizeWithDemoModelAndCatalog(t *testing.T) {
	s := NewSynthesizer(NewMockModel(), catalog.NewMock(12, catalog.DemoCatalog()...), 10, 4)

	got := s.Synthesize(context.Background(), models.UserProfile{Interests: []string{"Action"}}, nil)

	assert.True(t, got.Demo)
	assert.Equal(t, OutcomeOK, got.Outcome)
	require.Len(t, got.Results, 3)
	assert.Equal(t, "Cowboy Bebop", got.Results[0].Anime.Title)
	assert.Equal(t, "Classic sci-fi noir that matches your interest in action.", got.Results[0].Reason)
	assert.Equal(t, 9253, got.Results[2].Anime.MalID)
}

func TestRecentHistory(t *testing.T) {
	w := models.Watchlist{}
	add := func(id int, title string, status models.Status, at int64) {
		track(t, w, record(id, title), status, time.UnixMilli(at))
	}
	add(1, "Old Completed", models.StatusCompleted, 100)
	add(2, "Newest Watching", models.StatusWatching, 500)
	add(3, "Planned", models.StatusPlanToWatch, 900)
	add(4, "Dropped", models.StatusDropped, 800)
	add(5, "Mid Completed", models.StatusCompleted, 300)

	assert.Equal(t, []string{"Newest Watching", "Mid Completed", "Old Completed"}, RecentHistory(w, 10))
	assert.Equal(t, []string{"Newest Watching", "Mid Completed"}, RecentHistory(w, 2))
	assert.Equal(t, []string{}, RecentHistory(nil, 10))
}

func TestSynthesizePassesCappedHistory(t *testing.T) {
	w := models.Watchlist{}
	for i := 1; i <= 12; i++ {
		track(t, w, record(i, string(rune('A'+i-1))), models.StatusCompleted, time.UnixMilli(int64(i)))
	}
	model := new(mockModel)
	model.On("Recommend", mock.Anything, mock.MatchedBy(func(h []string) bool {
		return len(h) == 10 && h[0] == "L" && h[9] == "C"
	}), 4).Return([]models.Candidate{})

	NewSynthesizer(model, catalog.NewMock(12), 10, 4).Synthesize(context.Background(), models.UserProfile{}, w)
	model.AssertExpectations(t)
}

func track(t *testing.T, w models.Watchlist, a models.Anime, status models.Status, at time.Time) {
	t.Helper()
	entry, err := models.NewWatchlistEntry(a, status, nil, at)
	require.NoError(t, err)
	w[models.WatchlistKey(a.MalID)] = entry
}
