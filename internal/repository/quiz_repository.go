package repository

import (
	"context"

	"github.com/lshigami/quizforge/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuizRepository interface {
	Create(ctx context.Context, quiz *model.Quiz) error
	FindByIDWithQuestions(ctx context.Context, id uint) (*model.Quiz, error)
	FindAllWithQuestionCount(ctx context.Context) ([]model.QuizWithCount, error)
	Delete(ctx context.Context, id uint) (*model.Quiz, error)
	Ping(ctx context.Context) error
}

type quizRepository struct {
	db *gorm.DB
}

func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

// Create inserts the quiz and its questions in one transaction. Question
// positions follow slice order.
func (r *quizRepository) Create(ctx context.Context, quiz *model.Quiz) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(quiz).Error; err != nil {
			return err
		}
		if len(quiz.Questions) == 0 {
			return nil
		}
		for i := range quiz.Questions {
			quiz.Questions[i].QuizID = quiz.ID
			quiz.Questions[i].Position = i
		}
		return tx.Create(&quiz.Questions).Error
	})
}

func (r *quizRepository) FindByIDWithQuestions(ctx context.Context, id uint) (*model.Quiz, error) {
	return findWithQuestions(r.db.WithContext(ctx), id)
}

func (r *quizRepository) FindAllWithQuestionCount(ctx context.Context) ([]model.QuizWithCount, error) {
	var results []model.QuizWithCount
	err := r.db.WithContext(ctx).Model(&model.Quiz{}).
		Select("quizzes.*, (SELECT COUNT(*) FROM questions WHERE questions.quiz_id = quizzes.id) AS question_count").
		Order("quizzes.created_at DESC").
		Order("quizzes.id DESC").
		Scan(&results).Error
	return results, err
}

// Delete removes the quiz and its questions and returns the quiz as it was
// before deletion. A missing quiz yields gorm.ErrRecordNotFound.
func (r *quizRepository) Delete(ctx context.Context, id uint) (*model.Quiz, error) {
	var deleted *model.Quiz
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		quiz, err := findWithQuestions(tx, id)
		if err != nil {
			return err
		}
		// explicit so the cascade holds even where FK enforcement is off
		if err := tx.Where("quiz_id = ?", id).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Quiz{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		deleted = quiz
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

func (r *quizRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func findWithQuestions(db *gorm.DB, id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.position ASC").Order("questions.id ASC")
	}).First(&quiz, id).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}
