// internal/auth/middleware.go
package auth

import (
	"context"
	"net/http"

	"quiz-portal/internal/web"
)

// SessionCookie carries the signed session token.
const SessionCookie = "quiz_session"

// Context keys set by RequireLogin.
const (
	CtxUserID      = "user_id"
	CtxDisplayName = "display_name"
)

// RequireLogin redirects anonymous or expired sessions to the login page
// with a warning notice; valid sessions get user id and display name on
// the request context.
func RequireLogin(service *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				web.SetFlash(w, r, "warning", "Please log in to access this page.")
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			userID, displayName, err := service.ParseToken(cookie.Value)
			if err != nil {
				web.SetFlash(w, r, "warning", "Your session has expired. Please log in again.")
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), CtxUserID, userID)
			ctx = context.WithValue(ctx, CtxDisplayName, displayName)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionDisplayName returns the display name for the navbar, or "" when
// the request carries no valid session. Usable outside RequireLogin.
func SessionDisplayName(service *Service, r *http.Request) string {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return ""
	}
	_, displayName, err := service.ParseToken(cookie.Value)
	if err != nil {
		return ""
	}
	return displayName
}
