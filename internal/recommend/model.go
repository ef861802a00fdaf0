// Package recommend produces AI-curated anime recommendations.
//
// A Model proposes candidate titles with reasons; the Synthesizer hydrates
// them against the catalog and pairs every record with the reason of the
// candidate that produced it.
package recommend

import (
	"context"

	"github.com/vrsandeep/animelist/internal/config"
	"github.com/vrsandeep/animelist/internal/logging"
	"github.com/vrsandeep/animelist/internal/models"
)

const DefaultCandidateCount = 4

// Model proposes recommendation candidates for a user.
type Model interface {
	// Recommend returns up to count candidates, or an empty slice when nothing
	// usable came back. It never fails loudly.
	Recommend(ctx context.Context, profile models.UserProfile, history []string, count int) []models.Candidate
	// Demo reports whether the model serves canned data instead of a live endpoint.
	Demo() bool
}

// New selects the model variant once: no API key means demo mode.
func New(ctx context.Context, cfg config.ModelConfig) (Model, error) {
	if cfg.APIKey == "" {
		logging.Warn().Msg("Model API key is missing, recommendations run in demo mode with mock data")
		return NewMockModel(), nil
	}
	gen, err := NewGeminiGenerator(ctx, cfg.APIKey, cfg.Name)
	if err != nil {
		return nil, err
	}
	return NewLiveModel(gen), nil
}

// MockModel returns a fixed candidate list regardless of input.
type MockModel struct{}

func NewMockModel() *MockModel {
	return &MockModel{}
}

var mockCandidates = []models.Candidate{
	{Title: "Cowboy Bebop", Reason: "Classic sci-fi noir that matches your interest in action."},
	{Title: "Fullmetal Alchemist: Brotherhood", Reason: "Top tier adventure and deep story."},
	{Title: "Steins;Gate", Reason: "Excellent thriller with time travel elements."},
}

func (m *MockModel) Recommend(ctx context.Context, profile models.UserProfile, history []string, count int) []models.Candidate {
	out := make([]models.Candidate, len(mockCandidates))
	copy(out, mockCandidates)
	return out
}

func (m *MockModel) Demo() bool { return true }
