// internal/weather/service.go
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	defaultBaseURL = "https://api.openweathermap.org/data/2.5/forecast"
	requestTimeout = 5 * time.Second
	cacheTTL       = 30 * time.Minute
	forecastDays   = 3
)

// DayForecast is one row of the widget: a date, the mean temperature over
// the day's 3-hour slots, and the most frequent conditions description.
type DayForecast struct {
	Date        string  `json:"date"`
	AvgTemp     float64 `json:"avg_temp"`
	Description string  `json:"description"`
}

// Cache stores shaped forecasts per city.
type Cache interface {
	GetForecast(city string, dest interface{}) error
	SetForecast(city string, v interface{}, ttl time.Duration) error
}

type Service struct {
	apiKey  string
	baseURL string
	client  *http.Client
	cache   Cache
	sf      singleflight.Group
}

// NewService builds the forecast widget service. cache may be nil.
func NewService(apiKey string, cache Cache) *Service {
	return &Service{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: requestTimeout},
		cache:   cache,
	}
}

// NewServiceWithBaseURL is for tests that point the client at a fake server.
func NewServiceWithBaseURL(apiKey, baseURL string, cache Cache) *Service {
	s := NewService(apiKey, cache)
	s.baseURL = baseURL
	return s
}

// ThreeDayForecast returns the widget rows for a city. It never fails: any
// upstream problem (no API key, timeout, bad payload) degrades to
// placeholder rows so the page still renders.
func (s *Service) ThreeDayForecast(ctx context.Context, city string) []DayForecast {
	if s.apiKey == "" {
		return placeholder()
	}

	if s.cache != nil {
		var cached []DayForecast
		if err := s.cache.GetForecast(city, &cached); err == nil && len(cached) > 0 {
			return cached
		}
	}

	result, err, _ := s.sf.Do(strings.ToLower(city), func() (interface{}, error) {
		return s.fetch(ctx, city)
	})
	if err != nil {
		log.Printf("weather lookup for %q failed: %v", city, err)
		return placeholder()
	}

	forecast := result.([]DayForecast)
	if s.cache != nil {
		if err := s.cache.SetForecast(city, forecast, cacheTTL); err != nil {
			log.Printf("error caching forecast for %q: %v", city, err)
		}
	}
	return forecast
}

// forecastResponse mirrors the slice of the OpenWeather 5-day/3-hour payload
// the widget needs.
type forecastResponse struct {
	List []struct {
		DtTxt string `json:"dt_txt"`
		Main  struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
	} `json:"list"`
}

func (s *Service) fetch(ctx context.Context, city string) ([]DayForecast, error) {
	params := url.Values{}
	params.Set("q", city)
	params.Set("appid", s.apiKey)
	params.Set("units", "metric")
	params.Set("cnt", "24")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openweather returned status %d", resp.StatusCode)
	}

	var payload forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	forecast := shape(payload)
	if len(forecast) == 0 {
		return nil, fmt.Errorf("openweather returned no usable entries")
	}
	return forecast, nil
}

// shape groups 3-hour slots by date and reduces each day to a mean
// temperature and the modal description, keeping the first three dates.
func shape(payload forecastResponse) []DayForecast {
	type dayAgg struct {
		temps []float64
		descs map[string]int
	}
	days := make(map[string]*dayAgg)

	for _, item := range payload.List {
		date, _, found := strings.Cut(item.DtTxt, " ")
		if !found || date == "" {
			continue
		}
		agg, ok := days[date]
		if !ok {
			agg = &dayAgg{descs: make(map[string]int)}
			days[date] = agg
		}
		agg.temps = append(agg.temps, item.Main.Temp)
		if len(item.Weather) > 0 {
			agg.descs[item.Weather[0].Description]++
		}
	}

	dates := make([]string, 0, len(days))
	for date := range days {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	if len(dates) > forecastDays {
		dates = dates[:forecastDays]
	}

	forecast := make([]DayForecast, 0, len(dates))
	for _, date := range dates {
		agg := days[date]
		sum := 0.0
		for _, t := range agg.temps {
			sum += t
		}
		avg := math.Round(sum/float64(len(agg.temps))*10) / 10

		best, bestCount := "", 0
		for desc, count := range agg.descs {
			if count > bestCount || (count == bestCount && desc < best) {
				best, bestCount = desc, count
			}
		}

		forecast = append(forecast, DayForecast{
			Date:        date,
			AvgTemp:     avg,
			Description: best,
		})
	}
	return forecast
}

// placeholder keeps the widget populated when no live data is available.
func placeholder() []DayForecast {
	today := time.Now().Format("2006-01-02")
	return []DayForecast{
		{Date: today, AvgTemp: 29.0, Description: "clear sky"},
		{Date: today, AvgTemp: 30.0, Description: "scattered clouds"},
		{Date: today, AvgTemp: 28.0, Description: "light rain"},
	}
}
