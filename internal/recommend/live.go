package recommend

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/vrsandeep/animelist/internal/logging"
	"github.com/vrsandeep/animelist/internal/models"
)

const defaultGeminiModel = "gemini-2.5-flash"

// Generator sends a prompt to a generative model and returns the raw text,
// which should be a JSON array of {title, reason} objects.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// LiveModel asks a Generator for candidates and validates the answer.
type LiveModel struct {
	gen Generator
	log zerolog.Logger
}

func NewLiveModel(gen Generator) *LiveModel {
	return &LiveModel{
		gen: gen,
		log: logging.With().Str("component", "model").Logger(),
	}
}

func (m *LiveModel) Demo() bool { return false }

// Recommend returns an empty slice on transport errors or unusable output.
func (m *LiveModel) Recommend(ctx context.Context, profile models.UserProfile, history []string, count int) []models.Candidate {
	if count <= 0 {
		count = DefaultCandidateCount
	}

	text, err := m.gen.Generate(ctx, BuildPrompt(profile, history, count))
	if err != nil {
		m.log.Warn().Err(err).Msg("Model request failed")
		return []models.Candidate{}
	}

	candidates, err := ParseCandidates(text, count)
	if err != nil {
		m.log.Warn().Err(err).Msg("Model returned an unusable response")
		return []models.Candidate{}
	}
	return candidates
}

// GeminiGenerator calls the Gemini API with a structured output schema.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if model == "" {
		model = defaultGeminiModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

// candidateSchema constrains the response to [{title, reason}].
var candidateSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":  {Type: genai.TypeString, Description: "The exact title of the anime"},
			"reason": {Type: genai.TypeString, Description: "Why you recommend this based on my interests"},
		},
		Required: []string{"title", "reason"},
	},
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   candidateSchema,
	})
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", errors.New("empty response from model")
	}
	return resp.Text(), nil
}
