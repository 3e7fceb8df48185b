package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/lshigami/quizforge/internal/dto"
	"github.com/lshigami/quizforge/internal/model"
	"github.com/lshigami/quizforge/internal/question"
	"github.com/lshigami/quizforge/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type QuizService interface {
	Create(ctx context.Context, req dto.CreateQuizRequest) (*dto.QuizResponse, error)
	FindAll(ctx context.Context) ([]dto.QuizSummary, error)
	FindOne(ctx context.Context, id uint) (*dto.QuizResponse, error)
	Remove(ctx context.Context, id uint) (*dto.QuizResponse, error)
	Healthy(ctx context.Context) error
}

type quizService struct {
	quizRepo repository.QuizRepository
}

func NewQuizService(quizRepo repository.QuizRepository) QuizService {
	return &quizService{quizRepo: quizRepo}
}

func (s *quizService) Create(ctx context.Context, req dto.CreateQuizRequest) (*dto.QuizResponse, error) {
	quiz, err := buildQuiz(req)
	if err != nil {
		log.Warn().Err(err).Str("title", req.Title).Msg("Rejected quiz creation request")
		return nil, err
	}

	if err := s.quizRepo.Create(ctx, quiz); err != nil {
		log.Error().Err(err).Str("title", quiz.Title).Msg("Failed to create quiz in database")
		return nil, fmt.Errorf("database error creating quiz: %w", err)
	}
	log.Info().Uint("quizID", quiz.ID).Int("questionCount", len(quiz.Questions)).Msg("Quiz created")

	return toQuizResponse(quiz)
}

func (s *quizService) FindAll(ctx context.Context) ([]dto.QuizSummary, error) {
	rows, err := s.quizRepo.FindAllWithQuestionCount(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list quizzes with question count")
		return nil, fmt.Errorf("error fetching quizzes: %w", err)
	}

	summaries := make([]dto.QuizSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, dto.QuizSummary{
			ID:            row.Quiz.ID,
			Title:         row.Quiz.Title,
			QuestionCount: row.QuestionCount,
			CreatedAt:     row.Quiz.CreatedAt,
		})
	}
	return summaries, nil
}

func (s *quizService) FindOne(ctx context.Context, id uint) (*dto.QuizResponse, error) {
	quiz, err := s.quizRepo.FindByIDWithQuestions(ctx, id)
	if err != nil {
		return nil, translateStoreError(err, id, "fetching")
	}
	return toQuizResponse(quiz)
}

// Remove deletes the quiz with its questions and returns its last state.
func (s *quizService) Remove(ctx context.Context, id uint) (*dto.QuizResponse, error) {
	quiz, err := s.quizRepo.Delete(ctx, id)
	if err != nil {
		return nil, translateStoreError(err, id, "deleting")
	}
	log.Info().Uint("quizID", id).Int("questionCount", len(quiz.Questions)).Msg("Quiz deleted")
	return toQuizResponse(quiz)
}

func (s *quizService) Healthy(ctx context.Context) error {
	return s.quizRepo.Ping(ctx)
}

// ValidateCreateRequest reports every problem with req as one
// *ValidationError, or nil.
func ValidateCreateRequest(req dto.CreateQuizRequest) error {
	_, err := buildQuiz(req)
	return err
}

func buildQuiz(req dto.CreateQuizRequest) (*model.Quiz, error) {
	verr := &ValidationError{}
	if isBlank(req.Title) {
		verr.add("title must not be empty")
	}

	quiz := &model.Quiz{Title: req.Title}
	for i, q := range req.Questions {
		n := i + 1
		if isBlank(q.Text) {
			verr.add(fmt.Sprintf("question %d: text must not be empty", n))
		}
		t, err := question.ParseType(q.Type)
		if err != nil {
			verr.add(fmt.Sprintf("question %d: %v", n, err))
			continue
		}
		options, err := question.ResolveOptions(t, q.Options)
		if err != nil {
			verr.add(fmt.Sprintf("question %d: %v", n, err))
			continue
		}
		quiz.Questions = append(quiz.Questions, model.Question{
			Text:    q.Text,
			Type:    t,
			Options: options,
		})
	}

	if err := verr.orNil(); err != nil {
		return nil, err
	}
	return quiz, nil
}

func toQuizResponse(quiz *model.Quiz) (*dto.QuizResponse, error) {
	var resp dto.QuizResponse
	if err := copier.Copy(&resp, quiz); err != nil {
		log.Error().Err(err).Msg("Failed to copy Quiz model to QuizResponse")
		return nil, fmt.Errorf("error preparing quiz response: %w", err)
	}
	if resp.Questions == nil {
		resp.Questions = []dto.QuestionResponse{}
	}
	return &resp, nil
}

func translateStoreError(err error, id uint, action string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Warn().Uint("quizID", id).Msgf("Quiz not found while %s", action)
		return fmt.Errorf("%w: no quiz with ID %d", ErrNotFound, id)
	}
	log.Error().Err(err).Uint("quizID", id).Msgf("Store error while %s quiz", action)
	return fmt.Errorf("error %s quiz %d: %w", action, id, err)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
