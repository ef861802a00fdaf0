package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrsandeep/animelist/internal/models"
	"github.com/vrsandeep/animelist/internal/recommend"
	"github.com/vrsandeep/animelist/internal/testutil"
)

func TestRecommendationHandlers(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)
	router := server.Router()
	cookie, _ := testutil.GetAuthCookie(t, server, "curious@example.com", "password123")

	rr := doRequest(t, router, "POST", "/api/profile/onboarding", map[string]interface{}{
		"interests": []string{"Sci-Fi"},
	}, cookie)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(t, router, "PUT", "/api/watchlist/9253", map[string]string{"status": "completed"}, cookie)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(t, router, "POST", "/api/recommendations", nil, cookie)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var result recommend.Synthesis
	decodeBody(t, rr, &result)
	assert.Equal(t, recommend.OutcomeOK, result.Outcome)
	assert.True(t, result.Demo)
	require.Len(t, result.Results, 3)

	byTitle := map[string]models.Recommendation{}
	for _, rec := range result.Results {
		byTitle[rec.Anime.Title] = rec
	}
	require.Contains(t, byTitle, "Cowboy Bebop")
	assert.Equal(t, "Classic sci-fi noir that matches your interest in action.", byTitle["Cowboy Bebop"].Reason)
	assert.Empty(t, byTitle["Cowboy Bebop"].CurrentStatus)
	require.Contains(t, byTitle, "Steins;Gate")
	assert.Equal(t, "Excellent thriller with time travel elements.", byTitle["Steins;Gate"].Reason)
	assert.Equal(t, models.StatusCompleted, byTitle["Steins;Gate"].CurrentStatus)
}

func TestRecommendationHandlersRequireSession(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)
	rr := doRequest(t, server.Router(), "POST", "/api/recommendations", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
