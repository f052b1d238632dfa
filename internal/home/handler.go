// internal/home/handler.go
package home

import (
	"net/http"
	"time"

	"quiz-portal/internal/weather"
	"quiz-portal/internal/web"
)

const defaultCity = "Surabaya"

type Handler struct {
	weather     *weather.Service
	renderer    *web.Renderer
	sessionName func(r *http.Request) string
}

func NewHandler(weatherService *weather.Service, renderer *web.Renderer, sessionName func(r *http.Request) string) *Handler {
	return &Handler{weather: weatherService, renderer: renderer, sessionName: sessionName}
}

type indexData struct {
	City     string
	Weekday  string
	Forecast []weather.DayForecast
}

// Index renders the landing page with the weather widget. The widget never
// blocks the page on upstream failure.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	if city == "" {
		city = defaultCity
	}

	h.renderer.Render(w, "index.html", web.PageData{
		Title:       "Home",
		DisplayName: h.sessionName(r),
		Flashes:     web.PopFlashes(w, r),
		Data: indexData{
			City:     city,
			Weekday:  time.Now().Weekday().String(),
			Forecast: h.weather.ThreeDayForecast(r.Context(), city),
		},
	})
}
