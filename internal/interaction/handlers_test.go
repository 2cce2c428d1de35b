package interaction

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (*chi.Mux, *fakeRepo, *fakeNotifier) {
	t.Helper()

	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(NewService(repo, notifier)))
	return r, repo, notifier
}

func postJSON(t *testing.T, router *chi.Mux, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSuperLikeEndpointResponseShape(t *testing.T) {
	router, _, _ := setupRouter(t)

	rec := postJSON(t, router, "/api/interactions/super-like", map[string]string{
		"senderId":   "alice",
		"receiverId": "bob",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, true, resp["isSuper"])
	like, ok := resp["like"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, like["isSuper"])
	assert.Equal(t, false, resp["isMatch"])
}

func TestLikeEndpointOmitsTopLevelIsSuper(t *testing.T) {
	router, _, _ := setupRouter(t)

	rec := postJSON(t, router, "/api/interactions/like", map[string]string{
		"senderId":   "alice",
		"receiverId": "bob",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	_, present := resp["isSuper"]
	assert.False(t, present)
}

func TestIncomingLikesEndpointUsesUserIdParam(t *testing.T) {
	router, _, _ := setupRouter(t)

	rec := postJSON(t, router, "/api/interactions/like", map[string]string{
		"senderId":   "bob",
		"receiverId": "alice",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/likes?userId=alice", nil)
	got := httptest.NewRecorder()
	router.ServeHTTP(got, req)
	require.Equal(t, http.StatusOK, got.Code)

	var likes []*Like
	require.NoError(t, json.Unmarshal(got.Body.Bytes(), &likes))
	assert.Len(t, likes, 1)

	// Missing param is rejected
	req = httptest.NewRequest(http.MethodGet, "/api/likes", nil)
	got = httptest.NewRecorder()
	router.ServeHTTP(got, req)
	assert.Equal(t, http.StatusBadRequest, got.Code)
}

func TestMatchesEndpointUsesUserIdParam(t *testing.T) {
	router, _, _ := setupRouter(t)

	rec := postJSON(t, router, "/api/interactions/like", map[string]string{"senderId": "alice", "receiverId": "bob"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = postJSON(t, router, "/api/interactions/like", map[string]string{"senderId": "bob", "receiverId": "alice"})
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/matches?userId=alice", nil)
	got := httptest.NewRecorder()
	router.ServeHTTP(got, req)
	require.Equal(t, http.StatusOK, got.Code)

	var matches []*MatchView
	require.NoError(t, json.Unmarshal(got.Body.Bytes(), &matches))
	assert.Len(t, matches, 1)
}
