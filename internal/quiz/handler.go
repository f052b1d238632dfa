// internal/quiz/handler.go
package quiz

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"quiz-portal/internal/auth"
	"quiz-portal/internal/web"

	"gorm.io/gorm"
)

type Handler struct {
	service  *Service
	renderer *web.Renderer
	// sessionName resolves the navbar display name on public pages.
	sessionName func(r *http.Request) string
}

func NewHandler(service *Service, renderer *web.Renderer, sessionName func(r *http.Request) string) *Handler {
	return &Handler{service: service, renderer: renderer, sessionName: sessionName}
}

// Quiz serves a fresh random question. Mounted behind RequireLogin.
func (h *Handler) Quiz(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.NextQuestion()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, ErrNoQuestions) {
			web.SetFlash(w, r, "warning", "No questions in the database yet.")
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		log.Printf("error picking question: %v", err)
		web.SetFlash(w, r, "danger", "Could not load a question. Try again.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	displayName, _ := r.Context().Value(auth.CtxDisplayName).(string)
	h.renderer.Render(w, "quiz.html", web.PageData{
		Title:       "Quiz",
		DisplayName: displayName,
		Flashes:     web.PopFlashes(w, r),
		Data:        view,
	})
}

// SubmitAnswer grades the posted choice and redirects back to a fresh
// question with a feedback notice. Mounted behind RequireLogin.
func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(auth.CtxUserID).(uint)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	questionID, err := strconv.ParseUint(r.FormValue("question_id"), 10, 32)
	if err != nil {
		web.SetFlash(w, r, "danger", "Invalid submission.")
		http.Redirect(w, r, "/quiz", http.StatusSeeOther)
		return
	}

	// Missing or non-numeric choice grades as incorrect, never an error.
	selected := -1
	if raw := r.FormValue("choice"); raw != "" {
		if v, convErr := strconv.Atoi(raw); convErr == nil {
			selected = v
		}
	}

	result, err := h.service.SubmitAnswer(userID, uint(questionID), selected)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			web.SetFlash(w, r, "danger", "That question no longer exists.")
		} else {
			log.Printf("error grading submission for user %d: %v", userID, err)
			web.SetFlash(w, r, "danger", "Could not grade your answer. Try again.")
		}
		http.Redirect(w, r, "/quiz", http.StatusSeeOther)
		return
	}

	if result.Correct {
		web.SetFlash(w, r, "success", "Correct!")
	} else {
		web.SetFlash(w, r, "info", fmt.Sprintf("Wrong. Correct answer: %s", result.CorrectText))
	}
	http.Redirect(w, r, "/quiz", http.StatusSeeOther)
}

// Leaderboard renders the top-50 page.
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.Leaderboard()
	if err != nil {
		log.Printf("error loading leaderboard: %v", err)
		web.SetFlash(w, r, "danger", "Could not load the leaderboard.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.renderer.Render(w, "leaderboard.html", web.PageData{
		Title:       "Leaderboard",
		DisplayName: h.sessionName(r),
		Flashes:     web.PopFlashes(w, r),
		Data:        entries,
	})
}

// LeaderboardAPI serves the same standings as JSON.
func (h *Handler) LeaderboardAPI(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.Leaderboard()
	if err != nil {
		log.Printf("error loading leaderboard: %v", err)
		http.Error(w, "could not load leaderboard", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}
