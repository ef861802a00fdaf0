package recommend

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/vrsandeep/animelist/internal/models"
)

var errMalformedCandidate = errors.New("candidate is missing title or reason")

// BuildPrompt renders the request sent to the model.
func BuildPrompt(profile models.UserProfile, history []string, count int) string {
	historyLine := "I am new to anime."
	if len(history) > 0 {
		historyLine = fmt.Sprintf("I have recently watched or plan to watch: %s.", strings.Join(history, ", "))
	}

	var b strings.Builder
	b.WriteString("I am an anime fan.\n")
	fmt.Fprintf(&b, "My favorite genres are: %s.\n", strings.Join(profile.Interests, ", "))
	b.WriteString(historyLine + "\n\n")
	fmt.Fprintf(&b, "Please recommend exactly %d anime series that I haven't watched yet.\n", count)
	b.WriteString("Do not include any from my history list.\n")
	b.WriteString("Provide the exact English or Romaji title that can be found in a database like MyAnimeList.\n")
	return b.String()
}

// stripCodeFences removes markdown fences a model may wrap its JSON in.
func stripCodeFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// ParseCandidates decodes a model response into at most count candidates.
// Any item without a title or reason invalidates the whole response.
func ParseCandidates(text string, count int) ([]models.Candidate, error) {
	cleaned := stripCodeFences(text)
	if cleaned == "" {
		return nil, errors.New("empty model response")
	}

	var candidates []models.Candidate
	if err := json.Unmarshal([]byte(cleaned), &candidates); err != nil {
		return nil, fmt.Errorf("decode candidates: %w", err)
	}

	for i := range candidates {
		candidates[i].Title = strings.TrimSpace(candidates[i].Title)
		candidates[i].Reason = strings.TrimSpace(candidates[i].Reason)
		if candidates[i].Title == "" || candidates[i].Reason == "" {
			return nil, fmt.Errorf("item %d: %w", i, errMalformedCandidate)
		}
	}
	if count > 0 && len(candidates) > count {
		candidates = candidates[:count]
	}
	return candidates, nil
}
