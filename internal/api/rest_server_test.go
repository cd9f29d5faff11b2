package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/h918m/mazmorra/internal/auth"
	"github.com/h918m/mazmorra/internal/domain"
	"github.com/h918m/mazmorra/internal/infrastructure/storage"
	"github.com/h918m/mazmorra/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init("error", "text")
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) (*RestServer, *storage.MemoryHeroRepository, *auth.Issuer) {
	t.Helper()
	issuer, err := auth.NewIssuer("test-secret-0123456789", time.Hour)
	require.NoError(t, err)
	repo := storage.NewMemoryHeroRepository()
	return NewRestServer(repo, issuer, nil), repo, issuer
}

func do(rs *RestServer, method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	rs.Handler().ServeHTTP(w, req)
	return w
}

func TestCreateHero(t *testing.T) {
	rs, repo, issuer := newTestServer(t)

	w := do(rs, http.MethodPost, "/heroes", CreateHeroRequest{Name: "  Ayla ", PrimaryAttribute: "agility"}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp CreateHeroResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Hero)
	assert.Equal(t, "Ayla", resp.Hero.Name)
	assert.Equal(t, domain.AttrAgility, resp.Hero.Primary)
	assert.Equal(t, 1, resp.Hero.Lvl)

	heroID, err := issuer.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.Hero.ID, heroID)

	saved, err := repo.Load(context.Background(), heroID)
	require.NoError(t, err)
	assert.Equal(t, "Ayla", saved.Name)
}

func TestCreateHero_Validation(t *testing.T) {
	rs, _, _ := newTestServer(t)

	tests := []struct {
		name string
		body any
	}{
		{"no name", map[string]string{"primaryAttribute": "agility"}},
		{"blank name", CreateHeroRequest{Name: "   "}},
		{"long name", CreateHeroRequest{Name: "abcdefghijklmnopqrstuvwxyz"}},
		{"unknown attribute", CreateHeroRequest{Name: "Bob", PrimaryAttribute: "luck"}},
		{"not json", "{"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(rs, http.MethodPost, "/heroes", tt.body, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestGetHero(t *testing.T) {
	rs, repo, issuer := newTestServer(t)
	hero := domain.NewHero("h1", "Bob", domain.AttrStrength)
	require.NoError(t, repo.Save(context.Background(), hero))

	own, err := issuer.Issue("h1")
	require.NoError(t, err)
	other, err := issuer.Issue("h2")
	require.NoError(t, err)

	t.Run("свой герой", func(t *testing.T) {
		w := do(rs, http.MethodGet, "/heroes/h1", nil, own)
		require.Equal(t, http.StatusOK, w.Code)
		var got domain.HeroSnapshot
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "Bob", got.Name)
	})

	t.Run("без токена", func(t *testing.T) {
		w := do(rs, http.MethodGet, "/heroes/h1", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("чужой токен", func(t *testing.T) {
		w := do(rs, http.MethodGet, "/heroes/h1", nil, other)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("битый токен", func(t *testing.T) {
		w := do(rs, http.MethodGet, "/heroes/h1", nil, "garbage")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("героя нет", func(t *testing.T) {
		w := do(rs, http.MethodGet, "/heroes/h2", nil, other)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCORS(t *testing.T) {
	issuer, err := auth.NewIssuer("test-secret-0123456789", time.Hour)
	require.NoError(t, err)
	rs := NewRestServer(storage.NewMemoryHeroRepository(), issuer, []string{"http://game.local"})

	req := httptest.NewRequest(http.MethodOptions, "/heroes", nil)
	req.Header.Set("Origin", "http://game.local")
	w := httptest.NewRecorder()
	rs.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://game.local", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.local")
	w = httptest.NewRecorder()
	rs.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
