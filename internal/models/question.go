// internal/models/question.go
package models

import (
    "strings"
    "time"
)

// ChoiceSeparator delimits choice texts inside the questions.choices column.
// Kept as "||" so a pre-existing questions table can be reused as-is.
const ChoiceSeparator = "||"

type Question struct {
    ID          uint      `json:"id" gorm:"primaryKey"`
    CreatedAt   time.Time `json:"created_at"`
    UpdatedAt   time.Time `json:"updated_at"`
    Prompt      string    `json:"prompt" gorm:"not null"`
    Choices     string    `json:"-" gorm:"not null"`
    AnswerIndex int       `json:"-" gorm:"not null"`
}

// ChoiceList splits the delimited choices column into the ordered choice texts.
func (q *Question) ChoiceList() []string {
    if q.Choices == "" {
        return nil
    }
    return strings.Split(q.Choices, ChoiceSeparator)
}

// JoinChoices builds the stored column value from an ordered choice list.
func JoinChoices(choices []string) string {
    return strings.Join(choices, ChoiceSeparator)
}

// Choice pairs a choice text with its original index in the stored order.
// The original index is what submissions are graded against; only the
// display order of a []Choice slice is ever shuffled.
type Choice struct {
    OriginalIndex int    `json:"original_index"`
    Text          string `json:"text"`
}
