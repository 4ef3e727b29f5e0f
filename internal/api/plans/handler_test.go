package plans

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cafeplanner/config"
	"cafeplanner/database"
	"cafeplanner/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	config.JWT_SECRET = "test-secret"
	database.DB = newTestDB(t)

	r := gin.New()
	authed := r.Group("/api")
	authed.Use(middleware.AuthMiddleware())
	authed.GET("/plans", ListPlans)
	authed.PUT("/plans/sync", SyncPlans)
	return r
}

func sessionCookie(t *testing.T, userID uint) *http.Cookie {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(config.JWT_SECRET))
	require.NoError(t, err)
	return &http.Cookie{Name: middleware.SessionCookieName, Value: signed}
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSyncPlans_RequiresSession(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPut, "/api/plans/sync", gin.H{"plans": []gin.H{{"title": "x"}}}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// nothing was written
	cookie := sessionCookie(t, 1)
	w = doJSON(t, r, http.MethodGet, "/api/plans", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestSyncPlans_Scenario(t *testing.T) {
	r := newTestRouter(t)
	cookie := sessionCookie(t, 1)

	body := gin.H{"plans": []gin.H{{
		"title": "Weekend café",
		"items": []gin.H{
			{"text": "Try latte", "order": 0},
			{"text": "Take photo", "order": 1},
		},
	}}}
	w := doJSON(t, r, http.MethodPut, "/api/plans/sync", body, cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp []PlanDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)

	plan := resp[0]
	assert.NotEmpty(t, plan.ID)
	assert.Equal(t, "Weekend café", plan.Title)
	assert.False(t, plan.CreatedAt.IsZero())
	require.Len(t, plan.Items, 2)
	assert.Equal(t, "Try latte", plan.Items[0].Text)
	assert.False(t, plan.Items[0].Done)
	assert.Equal(t, "Take photo", plan.Items[1].Text)

	// second sync: same id, changed title, one item dropped
	second := gin.H{"plans": []gin.H{{
		"id":    plan.ID,
		"title": "Weekend café v2",
		"items": []gin.H{
			{"id": plan.Items[1].ID, "text": "Take photo", "order": 0},
		},
	}}}
	w = doJSON(t, r, http.MethodPut, "/api/plans/sync", second, cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp2 []PlanDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp2))
	require.Len(t, resp2, 1)
	assert.Equal(t, plan.ID, resp2[0].ID)
	assert.Equal(t, "Weekend café v2", resp2[0].Title)
	assert.Equal(t, plan.CreatedAt.UTC(), resp2[0].CreatedAt.UTC())
	require.Len(t, resp2[0].Items, 1)
	assert.Equal(t, "Take photo", resp2[0].Items[0].Text)
}

func TestSyncPlans_EmptySnapshotClearsEverything(t *testing.T) {
	r := newTestRouter(t)
	cookie := sessionCookie(t, 1)

	seed := gin.H{"plans": []gin.H{{"title": "A"}, {"title": "B"}}}
	w := doJSON(t, r, http.MethodPut, "/api/plans/sync", seed, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPut, "/api/plans/sync", gin.H{"plans": []gin.H{}}, cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, "[]", w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/api/plans", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestSyncPlans_ValidationRejectsBeforeMutation(t *testing.T) {
	r := newTestRouter(t)
	cookie := sessionCookie(t, 1)

	seed := gin.H{"plans": []gin.H{{"title": "Keep me"}}}
	w := doJSON(t, r, http.MethodPut, "/api/plans/sync", seed, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	cases := []gin.H{
		{"plans": []gin.H{{"items": []gin.H{{"text": "no title"}}}}},         // missing title
		{"plans": []gin.H{{"title": "x", "items": []gin.H{{"done": true}}}}}, // missing item text
		{"plans": []gin.H{{"title": "x", "date": "not-a-date"}}},             // bad date
		{},                                                                   // missing plans key
	}
	for _, body := range cases {
		w := doJSON(t, r, http.MethodPut, "/api/plans/sync", body, cookie)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %v", body)
	}

	// malformed type: done as string
	raw := []byte(`{"plans":[{"title":"x","items":[{"text":"t","done":"yes"}]}]}`)
	req := httptest.NewRequest(http.MethodPut, "/api/plans/sync", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(cookie)
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)
	assert.Equal(t, http.StatusBadRequest, w2.Code)

	// the seeded plan survived every rejected call
	w = doJSON(t, r, http.MethodGet, "/api/plans", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var resp []PlanDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "Keep me", resp[0].Title)
}

func TestListPlans_ScopedToUser(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPut, "/api/plans/sync", gin.H{"plans": []gin.H{{"title": "mine"}}}, sessionCookie(t, 1))
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/plans", nil, sessionCookie(t, 2))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}
