package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newFakeGoogle(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.Form.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(GoogleProfile{ID: "g-1", Email: "stylist@salon.test", VerifiedEmail: true})
	})
	return httptest.NewServer(mux)
}

func TestProfile(t *testing.T) {
	srv := newFakeGoogle(t)
	defer srv.Close()

	p := NewGoogleProvider(GoogleConfig{ClientID: "id", ClientSecret: "secret", RedirectURL: "http://localhost/cb"}).
		WithEndpoints(oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"}, srv.URL+"/userinfo")

	profile, err := p.Profile(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, "stylist@salon.test", profile.Email)

	_, err = p.Profile(context.Background(), "bad-code")
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestProfileRequiresConfiguration(t *testing.T) {
	p := NewGoogleProvider(GoogleConfig{})
	assert.False(t, p.IsConfigured())
	_, err := p.Profile(context.Background(), "x")
	assert.ErrorIs(t, err, ErrOAuthNotConfigured)
}

func TestAuthURLCarriesState(t *testing.T) {
	p := NewGoogleProvider(GoogleConfig{ClientID: "id", ClientSecret: "s"})
	assert.True(t, strings.Contains(p.AuthURL("abc123"), "state=abc123"))
}
