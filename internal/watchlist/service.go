// Package watchlist applies status changes to a user's stored watchlist and
// fans the result out to the user's other devices.
package watchlist

import (
	"context"
	"fmt"
	"time"

	"github.com/vrsandeep/animelist/internal/logging"
	"github.com/vrsandeep/animelist/internal/models"
	"github.com/vrsandeep/animelist/internal/store"
)

const (
	EventUpdated = "watchlist.updated"
	EventRemoved = "watchlist.removed"
)

// Notifier delivers an event to every connected client of a user.
type Notifier interface {
	NotifyUser(userID string, v interface{})
}

type Service struct {
	store    *store.Store
	notifier Notifier
	now      func() time.Time
}

// NewService creates a Service. notifier may be nil.
func NewService(st *store.Store, notifier Notifier) *Service {
	return &Service{store: st, notifier: notifier, now: time.Now}
}

// SetStatus writes the entry for anime under uid, replacing any previous entry
// for the same catalog id. Other entries are never touched.
func (s *Service) SetStatus(ctx context.Context, uid string, anime models.Anime, status models.Status, progress *int) (models.WatchlistEntry, error) {
	entry, err := models.NewWatchlistEntry(anime, status, progress, s.now())
	if err != nil {
		return models.WatchlistEntry{}, err
	}
	if err := s.store.UpdateWatchlistEntry(ctx, uid, entry); err != nil {
		return models.WatchlistEntry{}, fmt.Errorf("set status for %d: %w", anime.MalID, err)
	}

	logging.Debug().Str("user_id", uid).Int("mal_id", anime.MalID).Str("status", string(status)).Msg("Watchlist entry written")
	s.publish(uid, models.WatchlistEvent{Type: EventUpdated, MalID: anime.MalID, Entry: &entry})
	return entry, nil
}

// Remove deletes the entry for malID. Removing an untracked id succeeds.
func (s *Service) Remove(ctx context.Context, uid string, malID int) error {
	if err := s.store.DeleteWatchlistEntry(ctx, uid, malID); err != nil {
		return fmt.Errorf("remove %d: %w", malID, err)
	}
	s.publish(uid, models.WatchlistEvent{Type: EventRemoved, MalID: malID})
	return nil
}

func (s *Service) publish(uid string, event models.WatchlistEvent) {
	if s.notifier == nil {
		return
	}
	s.notifier.NotifyUser(uid, event)
}
