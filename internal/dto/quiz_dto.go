package dto

import "time"

// QuestionCreateDTO is one question inside a quiz creation request.
// Options is the JSON-encoded option list; blank means "use the type default".
type QuestionCreateDTO struct {
	Text    string `json:"text" binding:"required,notblank" example:"Is Paris the capital of France?"`
	Type    string `json:"type" binding:"required,questiontype" example:"BOOLEAN" enums:"BOOLEAN,INPUT,CHECKBOX"`
	Options string `json:"options,omitempty" example:"[\"True\",\"False\"]"`
}

// CreateQuizRequest creates a quiz together with all of its questions.
type CreateQuizRequest struct {
	Title     string              `json:"title" binding:"required,notblank" example:"Capitals"`
	Questions []QuestionCreateDTO `json:"questions" binding:"required,dive"`
}

type QuestionResponse struct {
	ID      uint   `json:"id"`
	QuizID  uint   `json:"quizId"`
	Text    string `json:"text"`
	Type    string `json:"type"`
	Options string `json:"options"`
}

type QuizResponse struct {
	ID        uint               `json:"id"`
	Title     string             `json:"title"`
	CreatedAt time.Time          `json:"createdAt"`
	Questions []QuestionResponse `json:"questions"`
}

// QuizSummary is the list projection of a quiz.
type QuizSummary struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	QuestionCount int       `json:"questionCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// GenerateQuizRequest asks the draft generator for a quiz on a topic.
type GenerateQuizRequest struct {
	Topic         string `json:"topic" binding:"required,notblank" example:"European capitals"`
	QuestionCount int    `json:"questionCount" binding:"omitempty,min=1,max=20" example:"5"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
