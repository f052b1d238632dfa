// internal/quiz/repository.go
package quiz

import (
	"quiz-portal/internal/models"

	"gorm.io/gorm"
)

type GormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) RandomQuestion() (*models.Question, error) {
	var question models.Question
	if err := r.db.Order("RANDOM()").First(&question).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *GormRepository) GetQuestion(id uint) (*models.Question, error) {
	var question models.Question
	if err := r.db.First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

// AddScore increments the persisted counter in the database so concurrent
// submissions never lose updates.
func (r *GormRepository) AddScore(userID uint, delta int) error {
	if delta == 0 {
		return nil
	}
	return r.db.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("total_score", gorm.Expr("total_score + ?", delta)).Error
}

func (r *GormRepository) TopUsers(limit int) ([]models.LeaderboardEntry, error) {
	var entries []models.LeaderboardEntry
	err := r.db.Model(&models.User{}).
		Select("display_name, total_score").
		Order("total_score DESC").
		Limit(limit).
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *GormRepository) CountQuestions() (int64, error) {
	var count int64
	err := r.db.Model(&models.Question{}).Count(&count).Error
	return count, err
}

func (r *GormRepository) CreateQuestions(questions []models.Question) error {
	return r.db.Create(&questions).Error
}
