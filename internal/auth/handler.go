// internal/auth/handler.go
package auth

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"quiz-portal/internal/web"
)

type Handler struct {
	service  *Service
	renderer *web.Renderer
}

func NewHandler(service *Service, renderer *web.Renderer) *Handler {
	return &Handler{service: service, renderer: renderer}
}

func (h *Handler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, "register.html", web.PageData{
		Title:       "Register",
		DisplayName: SessionDisplayName(h.service, r),
		Flashes:     web.PopFlashes(w, r),
	})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	displayName := strings.TrimSpace(r.FormValue("display_name"))
	password := r.FormValue("password")
	password2 := r.FormValue("password2")

	if username == "" || displayName == "" || password == "" {
		web.SetFlash(w, r, "danger", "All fields are required.")
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}
	if password != password2 {
		web.SetFlash(w, r, "danger", "Password and confirmation do not match.")
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	if err := h.service.Register(username, displayName, password); err != nil {
		switch {
		case errors.Is(err, ErrUsernameTaken):
			web.SetFlash(w, r, "danger", "Username already taken. Pick another one.")
		case errors.Is(err, ErrDisplayNameTaken):
			web.SetFlash(w, r, "danger", "Display name already taken. Pick another one.")
		default:
			log.Printf("error creating account for %q: %v", username, err)
			web.SetFlash(w, r, "danger", "Something went wrong creating the account.")
		}
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	web.SetFlash(w, r, "success", "Registration successful. Please log in.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, "login.html", web.PageData{
		Title:       "Log in",
		DisplayName: SessionDisplayName(h.service, r),
		Flashes:     web.PopFlashes(w, r),
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	token, _, err := h.service.Login(username, password)
	if err != nil {
		web.SetFlash(w, r, "danger", "Login failed. Check your username and password.")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	web.SetFlash(w, r, "success", "Logged in.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	web.SetFlash(w, r, "info", "You have been logged out.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Profile shows the logged-in user's account. Mounted behind RequireLogin.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(CtxUserID).(uint)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	user, err := h.service.GetUser(userID)
	if err != nil {
		log.Printf("error loading profile for user %d: %v", userID, err)
		web.SetFlash(w, r, "danger", "Could not load your profile.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.renderer.Render(w, "profile.html", web.PageData{
		Title:       "Profile",
		DisplayName: user.DisplayName,
		Flashes:     web.PopFlashes(w, r),
		Data:        user,
	})
}
