package models

// Candidate is a model-proposed title with its justification, before hydration.
type Candidate struct {
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

// Recommendation is a hydrated candidate ready for display.
type Recommendation struct {
	Anime         Anime  `json:"anime"`
	Reason        string `json:"reason"`
	CurrentStatus Status `json:"current_status,omitempty"`
}

// WatchlistEvent is pushed to a user's connected clients after a watchlist write.
type WatchlistEvent struct {
	Type  string          `json:"type"` // "watchlist.updated" or "watchlist.removed"
	MalID int             `json:"mal_id"`
	Entry *WatchlistEntry `json:"entry,omitempty"`
}
