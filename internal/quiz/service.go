// internal/quiz/service.go
package quiz

import (
	"errors"
	"log"
	"math/rand"

	"quiz-portal/internal/models"
)

// ErrNoQuestions is returned when the question table is empty.
var ErrNoQuestions = errors.New("no questions available")

const leaderboardLimit = 50

// Repository is the storage surface the quiz flow needs.
type Repository interface {
	RandomQuestion() (*models.Question, error)
	GetQuestion(id uint) (*models.Question, error)
	AddScore(userID uint, delta int) error
	TopUsers(limit int) ([]models.LeaderboardEntry, error)
}

// LeaderboardCache is an optional read-through cache for the top-N board.
type LeaderboardCache interface {
	GetLeaderboard(limit int64) ([]models.LeaderboardEntry, bool, error)
	SetLeaderboard(entries []models.LeaderboardEntry) error
	InvalidateLeaderboard() error
}

// Broadcaster pushes fresh leaderboards to connected browsers.
type Broadcaster interface {
	BroadcastLeaderboard(entries interface{})
}

type Service struct {
	repo  Repository
	cache LeaderboardCache
	hub   Broadcaster
}

// NewService wires the quiz flow. cache and hub may be nil.
func NewService(repo Repository, cache LeaderboardCache, hub Broadcaster) *Service {
	return &Service{repo: repo, cache: cache, hub: hub}
}

// QuestionView is a question prepared for rendering: the prompt plus the
// choices in shuffled display order. Each choice keeps its original index,
// which is what the submission form posts back.
type QuestionView struct {
	ID      uint
	Prompt  string
	Choices []models.Choice
}

// Result is the outcome of grading one submission.
type Result struct {
	Correct     bool
	CorrectText string
}

// NextQuestion picks a random question and shuffles its choice display
// order. The (original index, text) pairs move as units; indices are never
// renumbered.
func (s *Service) NextQuestion() (*QuestionView, error) {
	question, err := s.repo.RandomQuestion()
	if err != nil {
		return nil, err
	}

	texts := question.ChoiceList()
	choices := make([]models.Choice, len(texts))
	for i, text := range texts {
		choices[i] = models.Choice{OriginalIndex: i, Text: text}
	}
	rand.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})

	return &QuestionView{
		ID:      question.ID,
		Prompt:  question.Prompt,
		Choices: choices,
	}, nil
}

// SubmitAnswer re-fetches the question by id, grades the selected original
// index, and credits the user's running score with an atomic increment.
// A selected index outside [0, len(choices)) is simply incorrect. Repeat
// submissions for the same question are independent attempts; there is no
// dedup by design.
func (s *Service) SubmitAnswer(userID, questionID uint, selected int) (*Result, error) {
	question, err := s.repo.GetQuestion(questionID)
	if err != nil {
		return nil, err
	}

	choices := question.ChoiceList()
	correct := selected >= 0 && selected < len(choices) && selected == question.AnswerIndex

	if correct {
		if err := s.repo.AddScore(userID, 1); err != nil {
			return nil, err
		}
		s.refreshLeaderboard()
	}

	correctText := ""
	if question.AnswerIndex >= 0 && question.AnswerIndex < len(choices) {
		correctText = choices[question.AnswerIndex]
	}

	return &Result{Correct: correct, CorrectText: correctText}, nil
}

// Leaderboard returns the top players by total score, highest first.
func (s *Service) Leaderboard() ([]models.LeaderboardEntry, error) {
	if s.cache != nil {
		entries, ok, err := s.cache.GetLeaderboard(leaderboardLimit)
		if err != nil {
			log.Printf("error reading leaderboard cache: %v", err)
		} else if ok {
			return entries, nil
		}
	}

	entries, err := s.repo.TopUsers(leaderboardLimit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetLeaderboard(entries); err != nil {
			log.Printf("error writing leaderboard cache: %v", err)
		}
	}
	return entries, nil
}

// refreshLeaderboard invalidates the cached board after a score change and
// pushes the fresh standings to websocket clients.
func (s *Service) refreshLeaderboard() {
	if s.cache != nil {
		if err := s.cache.InvalidateLeaderboard(); err != nil {
			log.Printf("error invalidating leaderboard cache: %v", err)
		}
	}
	if s.hub == nil {
		return
	}
	entries, err := s.Leaderboard()
	if err != nil {
		log.Printf("error loading leaderboard for broadcast: %v", err)
		return
	}
	s.hub.BroadcastLeaderboard(entries)
}
