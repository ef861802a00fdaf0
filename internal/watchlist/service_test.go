package watchlist_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrsandeep/animelist/internal/models"
	"github.com/vrsandeep/animelist/internal/store"
	"github.com/vrsandeep/animelist/internal/testutil"
	"github.com/vrsandeep/animelist/internal/watchlist"
)

type recordingNotifier struct {
	mu     sync.Mutex
	users  []string
	events []models.WatchlistEvent
}

func (n *recordingNotifier) NotifyUser(userID string, v interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.users = append(n.users, userID)
	n.events = append(n.events, v.(models.WatchlistEvent))
}

func setup(t *testing.T) (*watchlist.Service, *store.Store, *recordingNotifier, string) {
	t.Helper()
	st := store.New(testutil.SetupTestDB(t))
	user, err := st.CreateUser(context.Background(), "viewer@example.com", "hash", "Viewer")
	require.NoError(t, err)
	n := &recordingNotifier{}
	return watchlist.NewService(st, n), st, n, user.ID
}

func TestService_SetStatusPersistsAndNotifies(t *testing.T) {
	svc, st, n, uid := setup(t)
	ctx := context.Background()
	progress := 3

	entry, err := svc.SetStatus(ctx, uid, models.Anime{MalID: 1, Title: "Cowboy Bebop"}, models.StatusWatching, &progress)
	require.NoError(t, err)
	assert.Equal(t, models.StatusWatching, entry.Status)
	assert.NotZero(t, entry.AddedAt)

	w, err := st.GetWatchlist(ctx, uid)
	require.NoError(t, err)
	require.Contains(t, w, "1")
	assert.Equal(t, "Cowboy Bebop", w["1"].Title)
	require.NotNil(t, w["1"].Progress)
	assert.Equal(t, 3, *w["1"].Progress)

	require.Len(t, n.events, 1)
	assert.Equal(t, uid, n.users[0])
	assert.Equal(t, watchlist.EventUpdated, n.events[0].Type)
	assert.Equal(t, 1, n.events[0].MalID)
}

func TestService_SetStatusOverwritesOnlyItsKey(t *testing.T) {
	svc, st, _, uid := setup(t)
	ctx := context.Background()
	progress := 5

	_, err := svc.SetStatus(ctx, uid, models.Anime{MalID: 1, Title: "Cowboy Bebop"}, models.StatusWatching, &progress)
	require.NoError(t, err)
	_, err = svc.SetStatus(ctx, uid, models.Anime{MalID: 2, Title: "Trigun"}, models.StatusPlanToWatch, nil)
	require.NoError(t, err)
	_, err = svc.SetStatus(ctx, uid, models.Anime{MalID: 1, Title: "Cowboy Bebop"}, models.StatusCompleted, nil)
	require.NoError(t, err)

	w, err := st.GetWatchlist(ctx, uid)
	require.NoError(t, err)
	assert.Len(t, w, 2)
	assert.Equal(t, models.StatusCompleted, w["1"].Status)
	assert.Nil(t, w["1"].Progress, "progress is reset when not supplied")
	assert.Equal(t, models.StatusPlanToWatch, w["2"].Status)
}

func TestService_SetStatusRejectsInvalidStatus(t *testing.T) {
	svc, st, n, uid := setup(t)
	ctx := context.Background()

	_, err := svc.SetStatus(ctx, uid, models.Anime{MalID: 1}, models.Status("rewatching"), nil)
	assert.ErrorIs(t, err, models.ErrInvalidStatus)

	w, err := st.GetWatchlist(ctx, uid)
	require.NoError(t, err)
	assert.Empty(t, w)
	assert.Empty(t, n.events)
}

func TestService_SetStatusUnknownUser(t *testing.T) {
	svc, _, n, _ := setup(t)

	_, err := svc.SetStatus(context.Background(), "missing-user", models.Anime{MalID: 1}, models.StatusWatching, nil)
	assert.True(t, errors.Is(err, store.ErrNotFound))
	assert.Empty(t, n.events)
}

func TestService_RemoveIsIdempotent(t *testing.T) {
	svc, st, n, uid := setup(t)
	ctx := context.Background()

	_, err := svc.SetStatus(ctx, uid, models.Anime{MalID: 7, Title: "Mushishi"}, models.StatusDropped, nil)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, uid, 7))
	require.NoError(t, svc.Remove(ctx, uid, 7))

	w, err := st.GetWatchlist(ctx, uid)
	require.NoError(t, err)
	assert.Empty(t, w)

	require.Len(t, n.events, 3)
	assert.Equal(t, watchlist.EventRemoved, n.events[2].Type)
	assert.Nil(t, n.events[2].Entry)
}
