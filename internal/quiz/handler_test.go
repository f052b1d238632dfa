package quiz

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"quiz-portal/internal/auth"
	"quiz-portal/internal/models"
	"quiz-portal/internal/web"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, repo *fakeRepo) *Handler {
	t.Helper()
	renderer, err := web.NewRenderer()
	require.NoError(t, err)
	service := NewService(repo, nil, nil)
	return NewHandler(service, renderer, func(*http.Request) string { return "" })
}

func asUser(r *http.Request, userID uint, displayName string) *http.Request {
	ctx := context.WithValue(r.Context(), auth.CtxUserID, userID)
	ctx = context.WithValue(ctx, auth.CtxDisplayName, displayName)
	return r.WithContext(ctx)
}

func TestQuizPageRendersHiddenQuestionID(t *testing.T) {
	handler := newTestHandler(t, newFakeRepo(capitalsQuestion()))

	req := asUser(httptest.NewRequest(http.MethodGet, "/quiz", nil), 1, "Alice")
	rec := httptest.NewRecorder()
	handler.Quiz(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `name="question_id" value="1"`)
	for _, choice := range []string{"Paris", "London", "Rome"} {
		assert.Contains(t, body, choice)
	}
}

func TestQuizPageRedirectsWhenNoQuestions(t *testing.T) {
	handler := newTestHandler(t, newFakeRepo())

	req := asUser(httptest.NewRequest(http.MethodGet, "/quiz", nil), 1, "Alice")
	rec := httptest.NewRecorder()
	handler.Quiz(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestSubmitAnswerRedirectsWithFeedback(t *testing.T) {
	repo := newFakeRepo(capitalsQuestion())
	handler := newTestHandler(t, repo)

	form := url.Values{"question_id": {"1"}, "choice": {"1"}}
	req := httptest.NewRequest(http.MethodPost, "/quiz", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = asUser(req, 8, "Alice")

	rec := httptest.NewRecorder()
	handler.SubmitAnswer(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/quiz", rec.Header().Get("Location"))
	assert.Equal(t, 1, repo.score(8))

	// A flash cookie carries the feedback to the next page.
	cookies := rec.Result().Cookies()
	var flashSet bool
	for _, c := range cookies {
		if c.Name == "flash" && c.Value != "" {
			flashSet = true
		}
	}
	assert.True(t, flashSet)
}

func TestSubmitAnswerMissingChoiceIsIncorrect(t *testing.T) {
	repo := newFakeRepo(capitalsQuestion())
	handler := newTestHandler(t, repo)

	form := url.Values{"question_id": {"1"}}
	req := httptest.NewRequest(http.MethodPost, "/quiz", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = asUser(req, 8, "Alice")

	rec := httptest.NewRecorder()
	handler.SubmitAnswer(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, 0, repo.score(8))
}

func TestLeaderboardAPIReturnsJSON(t *testing.T) {
	repo := newFakeRepo()
	repo.top = []models.LeaderboardEntry{
		{DisplayName: "Alice", TotalScore: 10},
		{DisplayName: "Bob", TotalScore: 4},
	}
	handler := newTestHandler(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/api/leaderboard", nil)
	rec := httptest.NewRecorder()
	handler.LeaderboardAPI(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t,
		`[{"display_name":"Alice","total_score":10},{"display_name":"Bob","total_score":4}]`,
		rec.Body.String())
}
