// internal/models/user.go
package models

import "time"

type User struct {
    ID           uint      `json:"id" gorm:"primaryKey"`
    CreatedAt    time.Time `json:"created_at"`
    UpdatedAt    time.Time `json:"updated_at"`
    Username     string    `json:"username" gorm:"uniqueIndex;not null"`
    DisplayName  string    `json:"display_name" gorm:"uniqueIndex;not null"`
    PasswordHash string    `json:"-" gorm:"not null"`
    TotalScore   int       `json:"total_score" gorm:"not null;default:0"`
}

type LeaderboardEntry struct {
    DisplayName string `json:"display_name"`
    TotalScore  int    `json:"total_score"`
}
