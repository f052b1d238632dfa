// internal/auth/service.go
package auth

import (
	"errors"
	"time"

	"quiz-portal/internal/models"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrDisplayNameTaken   = errors.New("display name already taken")
)

// UserRepository persists user accounts.
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByUsername(username string) (*models.User, error)
	GetUserByDisplayName(displayName string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
}

type Service struct {
	repo      UserRepository
	jwtSecret []byte
}

func NewService(repo UserRepository, jwtSecret string) *Service {
	return &Service{
		repo:      repo,
		jwtSecret: []byte(jwtSecret),
	}
}

// Register creates an account with a bcrypt-hashed password. Username and
// display name must both be free.
func (s *Service) Register(username, displayName, password string) error {
	if _, err := s.repo.GetUserByUsername(username); err == nil {
		return ErrUsernameTaken
	}
	if _, err := s.repo.GetUserByDisplayName(displayName); err == nil {
		return ErrDisplayNameTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &models.User{
		Username:     username,
		DisplayName:  displayName,
		PasswordHash: string(hashed),
		TotalScore:   0,
	}
	return s.repo.CreateUser(user)
}

// Login verifies the password and returns a signed session token.
func (s *Service) Login(username, password string) (string, *models.User, error) {
	user, err := s.repo.GetUserByUsername(username)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":      user.ID,
		"display_name": user.DisplayName,
		"exp":          time.Now().Add(time.Hour * 24).Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	return tokenString, user, nil
}

// ParseToken validates a session token and returns the user id and display name.
func (s *Service) ParseToken(tokenString string) (uint, string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.MapClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return 0, "", err
	}

	claims, ok := token.Claims.(*jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, "", errors.New("invalid token claims")
	}

	userID, ok := (*claims)["user_id"].(float64)
	if !ok {
		return 0, "", errors.New("invalid user id in token")
	}
	displayName, _ := (*claims)["display_name"].(string)

	return uint(userID), displayName, nil
}

// GetUser loads the account for a profile view.
func (s *Service) GetUser(id uint) (*models.User, error) {
	return s.repo.GetUserByID(id)
}
