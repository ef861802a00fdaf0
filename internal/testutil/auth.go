package testutil

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/vrsandeep/animelist/internal/api"
	"github.com/vrsandeep/animelist/internal/models"
)

// GetAuthCookie registers a user through the API and returns its session cookie
// along with the created user.
func GetAuthCookie(t *testing.T, s *api.Server, email, password string) (*http.Cookie, *models.User) {
	t.Helper()

	payload, _ := json.Marshal(map[string]string{"email": email, "password": password})
	req, _ := http.NewRequest("POST", "/api/users/register", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("Register failed within test helper for '%s': got status %d, want 201: %s", email, rr.Code, rr.Body.String())
	}

	var user models.User
	if err := json.Unmarshal(rr.Body.Bytes(), &user); err != nil {
		t.Fatalf("Could not decode registered user: %v", err)
	}

	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == "session_token" {
			return cookie, &user
		}
	}

	t.Fatal("Failed to get session cookie after registering test user")
	return nil, nil
}
