package recommend

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vrsandeep/animelist/internal/catalog"
	"github.com/vrsandeep/animelist/internal/logging"
	"github.com/vrsandeep/animelist/internal/models"
)

const (
	DefaultHistoryLimit = 10
	fallbackReason      = "Recommended for you"
)

// Outcome classifies how a synthesis ended.
type Outcome string

const (
	OutcomeOK Outcome = "ok"
	// OutcomeUnavailable means the model produced nothing; worth retrying later.
	OutcomeUnavailable Outcome = "unavailable"
	// OutcomeNoMatches means candidates came back but none matched the catalog.
	OutcomeNoMatches Outcome = "no_matches"
)

var outcomeMessages = map[Outcome]string{
	OutcomeUnavailable: "AI couldn't generate recommendations at the moment. Please try again.",
	OutcomeNoMatches:   "We found some ideas but couldn't match them in the catalog. Try again shortly.",
}

// Synthesis is the result of one recommendation run.
type Synthesis struct {
	Outcome Outcome                 `json:"outcome"`
	Message string                  `json:"message,omitempty"`
	Demo    bool                    `json:"demo"`
	Results []models.Recommendation `json:"results"`
}

// Synthesizer turns a user's profile and watchlist into hydrated recommendations.
// Each call owns its state; a Synthesizer may be shared between goroutines.
type Synthesizer struct {
	model        Model
	catalog      catalog.Client
	historyLimit int
	count        int
	log          zerolog.Logger
}

func NewSynthesizer(model Model, cat catalog.Client, historyLimit, count int) *Synthesizer {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	if count <= 0 {
		count = DefaultCandidateCount
	}
	return &Synthesizer{
		model:        model,
		catalog:      cat,
		historyLimit: historyLimit,
		count:        count,
		log:          logging.With().Str("component", "synthesizer").Logger(),
	}
}

// RecentHistory returns titles of watching or completed entries, most recently
// written first, capped at limit.
func RecentHistory(w models.Watchlist, limit int) []string {
	history := []string{}
	for _, e := range w.Sorted() {
		if e.Status != models.StatusCompleted && e.Status != models.StatusWatching {
			continue
		}
		history = append(history, e.Title)
		if len(history) == limit {
			break
		}
	}
	return history
}

// Synthesize asks the model for candidates, then hydrates them one by one.
// Every result carries the reason of the candidate whose title produced it.
func (s *Synthesizer) Synthesize(ctx context.Context, profile models.UserProfile, watchlist models.Watchlist) Synthesis {
	log := s.log.With().Str("user_id", profile.UID).Logger()
	result := Synthesis{Demo: s.model.Demo(), Results: []models.Recommendation{}}

	history := RecentHistory(watchlist, s.historyLimit)
	candidates := s.model.Recommend(ctx, profile, history, s.count)
	if len(candidates) == 0 {
		result.Outcome = OutcomeUnavailable
		result.Message = outcomeMessages[OutcomeUnavailable]
		log.Warn().Int("history", len(history)).Str("outcome", string(result.Outcome)).Msg("Model produced no candidates")
		return result
	}

	titles := make([]string, len(candidates))
	for i, c := range candidates {
		titles[i] = c.Title
	}

	seen := make(map[int]bool)
	for _, match := range s.catalog.Hydrate(ctx, titles) {
		if seen[match.Record.MalID] {
			continue
		}
		seen[match.Record.MalID] = true

		reason := fallbackReason
		if match.Index >= 0 && match.Index < len(candidates) {
			if r := strings.TrimSpace(candidates[match.Index].Reason); r != "" {
				reason = r
			}
		}
		result.Results = append(result.Results, models.Recommendation{
			Anime:         match.Record,
			Reason:        reason,
			CurrentStatus: watchlist.Status(match.Record.MalID),
		})
	}

	if len(result.Results) == 0 {
		result.Outcome = OutcomeNoMatches
		result.Message = outcomeMessages[OutcomeNoMatches]
		log.Warn().Int("candidates", len(candidates)).Str("outcome", string(result.Outcome)).Msg("No candidate matched the catalog")
		return result
	}

	result.Outcome = OutcomeOK
	log.Info().Int("candidates", len(candidates)).Int("results", len(result.Results)).Bool("demo", result.Demo).Msg("Recommendations generated")
	return result
}
