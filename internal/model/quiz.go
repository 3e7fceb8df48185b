package model

import "time"

type Quiz struct {
	ID        uint       `gorm:"primarykey" json:"id"`
	Title     string     `json:"title" gorm:"not null"`
	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:QuizID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// QuizWithCount is a quiz row joined with the number of its questions.
type QuizWithCount struct {
	Quiz
	QuestionCount int
}
