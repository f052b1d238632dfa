package main

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"quiz-portal/internal/auth"
	"quiz-portal/internal/home"
	"quiz-portal/internal/models"
	"quiz-portal/internal/quiz"
	"quiz-portal/internal/weather"
	"quiz-portal/internal/web"
	"quiz-portal/pkg/cache"
	"quiz-portal/pkg/database"
	"quiz-portal/pkg/websocket"

	"github.com/gorilla/mux"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	// Initialize database
	dbConfig := &database.Config{
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		DBName:   os.Getenv("DB_NAME"),
	}

	db, err := database.NewPostgresDB(dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Question{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Initialize Redis cache
	redisCache := cache.NewRedisCache(os.Getenv("REDIS_ADDR"))

	// Initialize WebSocket hub for live leaderboard updates
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Initialize repositories
	authRepo := auth.NewRepository(db)
	quizRepo := quiz.NewRepository(db)

	if err := seedQuestions(quizRepo); err != nil {
		log.Fatalf("Failed to seed questions: %v", err)
	}

	// Initialize template renderer
	renderer, err := web.NewRenderer()
	if err != nil {
		log.Fatalf("Failed to parse templates: %v", err)
	}

	// Initialize services
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatalf("JWT_SECRET must be set")
	}
	authService := auth.NewService(authRepo, jwtSecret)
	quizService := quiz.NewService(quizRepo, redisCache, wsHub)
	weatherService := weather.NewService(os.Getenv("OPENWEATHER_API_KEY"), redisCache)

	wsHub.SetSnapshot(func() (interface{}, error) {
		return quizService.Leaderboard()
	})

	sessionName := func(r *http.Request) string {
		return auth.SessionDisplayName(authService, r)
	}

	// Initialize handlers
	authHandler := auth.NewHandler(authService, renderer)
	quizHandler := quiz.NewHandler(quizService, renderer, sessionName)
	homeHandler := home.NewHandler(weatherService, renderer, sessionName)

	// Setup router
	router := mux.NewRouter()
	requireLogin := auth.RequireLogin(authService)

	router.HandleFunc("/", homeHandler.Index).Methods("GET")
	router.HandleFunc("/register", authHandler.RegisterPage).Methods("GET")
	router.HandleFunc("/register", authHandler.Register).Methods("POST")
	router.HandleFunc("/login", authHandler.LoginPage).Methods("GET")
	router.HandleFunc("/login", authHandler.Login).Methods("POST")
	router.HandleFunc("/logout", authHandler.Logout).Methods("GET")
	router.HandleFunc("/leaderboard", quizHandler.Leaderboard).Methods("GET")

	// Login required
	router.Handle("/quiz", requireLogin(http.HandlerFunc(quizHandler.Quiz))).Methods("GET")
	router.Handle("/quiz", requireLogin(http.HandlerFunc(quizHandler.SubmitAnswer))).Methods("POST")
	router.Handle("/profile", requireLogin(http.HandlerFunc(authHandler.Profile))).Methods("GET")

	// JSON API with CORS for external embeds
	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	})
	router.Handle("/api/leaderboard", corsMiddleware.Handler(http.HandlerFunc(quizHandler.LeaderboardAPI))).Methods("GET", "OPTIONS")

	// WebSocket endpoint
	router.HandleFunc("/ws/leaderboard", wsHub.HandleWebSocket)

	// Initialize random seed
	rand.Seed(time.Now().UnixNano())

	addr := os.Getenv("SERVER_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown setup
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server shutdown gracefully")
}

// seedQuestions inserts a starter question set on first run so the quiz is
// playable before any content tooling exists.
func seedQuestions(repo *quiz.GormRepository) error {
	count, err := repo.CountQuestions()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	questions := []models.Question{
		{
			Prompt:      "What is the capital of the United Kingdom?",
			Choices:     models.JoinChoices([]string{"Paris", "London", "Rome"}),
			AnswerIndex: 1,
		},
		{
			Prompt:      "Which planet is known as the Red Planet?",
			Choices:     models.JoinChoices([]string{"Mars", "Venus", "Jupiter", "Mercury"}),
			AnswerIndex: 0,
		},
		{
			Prompt:      "What is 7 x 8?",
			Choices:     models.JoinChoices([]string{"54", "58", "56", "64"}),
			AnswerIndex: 2,
		},
		{
			Prompt:      "Which ocean is the largest?",
			Choices:     models.JoinChoices([]string{"Atlantic", "Indian", "Arctic", "Pacific"}),
			AnswerIndex: 3,
		},
		{
			Prompt:      "Who wrote \"Romeo and Juliet\"?",
			Choices:     models.JoinChoices([]string{"Charles Dickens", "William Shakespeare", "Jane Austen"}),
			AnswerIndex: 1,
		},
	}

	log.Printf("Seeding %d starter questions", len(questions))
	return repo.CreateQuestions(questions)
}
