package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loggedInService(t *testing.T) (*Service, string) {
	t.Helper()
	repo := newFakeUserRepo()
	service := NewService(repo, "test-secret")
	require.NoError(t, service.Register("alice", "Alice", "s3cret"))
	token, _, err := service.Login("alice", "s3cret")
	require.NoError(t, err)
	return service, token
}

func TestRequireLoginRedirectsAnonymous(t *testing.T) {
	service, _ := loggedInService(t)

	called := false
	handler := RequireLogin(service)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/quiz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRequireLoginRejectsGarbageToken(t *testing.T) {
	service, _ := loggedInService(t)

	handler := RequireLogin(service)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/quiz", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "not-a-token"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRequireLoginPassesSessionToContext(t *testing.T) {
	service, token := loggedInService(t)

	var gotID uint
	var gotName string
	handler := RequireLogin(service)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = r.Context().Value(CtxUserID).(uint)
		gotName, _ = r.Context().Value(CtxDisplayName).(string)
	}))

	req := httptest.NewRequest(http.MethodGet, "/quiz", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint(1), gotID)
	assert.Equal(t, "Alice", gotName)
}

func TestSessionDisplayName(t *testing.T) {
	service, token := loggedInService(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", SessionDisplayName(service, req))

	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	assert.Equal(t, "Alice", SessionDisplayName(service, req))
}
