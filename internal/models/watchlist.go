package models

import (
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/vrsandeep/animelist/internal/util"
)

// Status is the tracking state of a watchlist entry.
type Status string

const (
	StatusWatching    Status = "watching"
	StatusCompleted   Status = "completed"
	StatusPlanToWatch Status = "plan_to_watch"
	StatusDropped     Status = "dropped"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusWatching, StatusPlanToWatch, StatusCompleted, StatusDropped}

var ErrInvalidStatus = errors.New("invalid watchlist status")

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusWatching, StatusCompleted, StatusPlanToWatch, StatusDropped:
		return true
	}
	return false
}

// WatchlistEntry is an Anime the user tracks, denormalized with its status.
type WatchlistEntry struct {
	Anime
	Status   Status `json:"status"`
	Progress *int   `json:"progress,omitempty"` // episodes watched
	AddedAt  int64  `json:"addedAt"`            // unix millis of the last status write
}

// Watchlist maps a catalog id (as a decimal string) to its entry.
// Iteration order carries no meaning; use Sorted for a stable view.
type Watchlist map[string]WatchlistEntry

// WatchlistKey returns the map key for a catalog id.
func WatchlistKey(malID int) string {
	return strconv.Itoa(malID)
}

// Status returns the tracked status for a catalog id, or "" when untracked.
func (w Watchlist) Status(malID int) Status {
	if e, ok := w[WatchlistKey(malID)]; ok {
		return e.Status
	}
	return ""
}

// Sorted returns the entries most recently written first. Ties fall back to title
// then id so the order is deterministic.
func (w Watchlist) Sorted() []WatchlistEntry {
	entries := make([]WatchlistEntry, 0, len(w))
	for _, e := range w {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].AddedAt != entries[j].AddedAt {
			return entries[i].AddedAt > entries[j].AddedAt
		}
		if c := util.CompareTitles(entries[i].Title, entries[j].Title); c != 0 {
			return c < 0
		}
		return entries[i].MalID < entries[j].MalID
	})
	return entries
}

// Filter returns the sorted entries with the given status.
func (w Watchlist) Filter(status Status) []WatchlistEntry {
	var out []WatchlistEntry
	for _, e := range w.Sorted() {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out
}

// Counts returns the number of entries per status, including zero counts.
func (w Watchlist) Counts() map[Status]int {
	counts := make(map[Status]int, len(Statuses))
	for _, s := range Statuses {
		counts[s] = 0
	}
	for _, e := range w {
		counts[e.Status]++
	}
	return counts
}

// NewWatchlistEntry builds the entry written for a status assignment. All record
// fields come from anime, so nothing from a previous entry at the same id
// survives; progress is kept only when supplied.
func NewWatchlistEntry(anime Anime, status Status, progress *int, now time.Time) (WatchlistEntry, error) {
	if !status.Valid() {
		return WatchlistEntry{}, ErrInvalidStatus
	}
	return WatchlistEntry{
		Anime:    anime,
		Status:   status,
		Progress: progress,
		AddedAt:  now.UnixMilli(),
	}, nil
}
