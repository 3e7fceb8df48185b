package model

import (
	"time"

	"github.com/lshigami/quizforge/internal/question"
)

type Question struct {
	ID        uint          `gorm:"primarykey" json:"id"`
	QuizID    uint          `json:"quizId" gorm:"not null;index"`
	Position  int           `json:"position" gorm:"not null"`
	Text      string        `json:"text" gorm:"type:text;not null"`
	Type      question.Type `json:"type" gorm:"type:varchar(16);not null"` // BOOLEAN, INPUT, CHECKBOX
	Options   string        `json:"options" gorm:"type:text;not null"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// Body decodes the stored options into the typed variant.
func (q *Question) Body() (question.Body, error) {
	return question.Decode(q.Type, q.Options)
}
