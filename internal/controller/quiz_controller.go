package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/quizforge/internal/dto"
	"github.com/lshigami/quizforge/internal/service"
	"github.com/rs/zerolog/log"
)

type QuizController struct {
	quizService service.QuizService
	generator   service.QuizGenerator
}

func NewQuizController(quizService service.QuizService, generator service.QuizGenerator) *QuizController {
	return &QuizController{quizService: quizService, generator: generator}
}

func (c *QuizController) RegisterRoutes(router gin.IRouter) {
	router.GET("/health", c.Health)

	quizzes := router.Group("/quizzes")
	quizzes.POST("", c.CreateQuiz)
	quizzes.GET("", c.ListQuizzes)
	quizzes.POST("/generate", c.GenerateDraft)
	quizzes.GET("/:id", c.GetQuiz)
	quizzes.DELETE("/:id", c.DeleteQuiz)
}

// CreateQuiz godoc
// @Summary Create a quiz
// @Description Creates a quiz together with all of its questions in one atomic write. Blank options fall back to the type default.
// @Tags quizzes
// @Accept json
// @Produce json
// @Param quiz body dto.CreateQuizRequest true "Quiz title and ordered questions"
// @Success 201 {object} dto.QuizResponse
// @Failure 400 {object} dto.ErrorResponse "Missing title or text, or unknown question type"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /quizzes [post]
func (c *QuizController) CreateQuiz(ctx *gin.Context) {
	var req dto.CreateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("CreateQuiz: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: bindingDetails(err)})
		return
	}

	quiz, err := c.quizService.Create(ctx.Request.Context(), req)
	if err != nil {
		c.respondError(ctx, err, "Failed to create quiz")
		return
	}
	ctx.JSON(http.StatusCreated, quiz)
}

// ListQuizzes godoc
// @Summary List quizzes
// @Description Returns every quiz as a summary with its question count, newest first.
// @Tags quizzes
// @Produce json
// @Success 200 {array} dto.QuizSummary
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /quizzes [get]
func (c *QuizController) ListQuizzes(ctx *gin.Context) {
	quizzes, err := c.quizService.FindAll(ctx.Request.Context())
	if err != nil {
		c.respondError(ctx, err, "Failed to retrieve quizzes")
		return
	}
	ctx.JSON(http.StatusOK, quizzes)
}

// GetQuiz godoc
// @Summary Get a quiz
// @Description Returns one quiz with its questions in creation order.
// @Tags quizzes
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid quiz ID format"
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Router /quizzes/{id} [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	quiz, err := c.quizService.FindOne(ctx.Request.Context(), id)
	if err != nil {
		c.respondError(ctx, err, "Failed to retrieve quiz")
		return
	}
	ctx.JSON(http.StatusOK, quiz)
}

// DeleteQuiz godoc
// @Summary Delete a quiz
// @Description Deletes a quiz and all of its questions.
// @Tags quizzes
// @Param id path int true "Quiz ID"
// @Success 204 "Quiz deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid quiz ID format"
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Router /quizzes/{id} [delete]
func (c *QuizController) DeleteQuiz(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	if _, err := c.quizService.Remove(ctx.Request.Context(), id); err != nil {
		c.respondError(ctx, err, "Failed to delete quiz")
		return
	}
	ctx.Status(http.StatusNoContent)
}

// GenerateDraft godoc
// @Summary Draft a quiz with AI
// @Description Asks the language model for a quiz on a topic and returns it as an unsaved creation request.
// @Tags quizzes
// @Accept json
// @Produce json
// @Param request body dto.GenerateQuizRequest true "Topic and desired question count"
// @Success 200 {object} dto.CreateQuizRequest
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 502 {object} dto.ErrorResponse "Model output unusable"
// @Failure 503 {object} dto.ErrorResponse "Generation not configured"
// @Router /quizzes/generate [post]
func (c *QuizController) GenerateDraft(ctx *gin.Context) {
	if !c.generator.Available() {
		c.respondError(ctx, service.ErrGeneratorUnavailable, "Quiz generation unavailable")
		return
	}
	var req dto.GenerateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: bindingDetails(err)})
		return
	}
	draft, err := c.generator.Generate(ctx.Request.Context(), req.Topic, req.QuestionCount)
	if err != nil {
		c.respondError(ctx, err, "Failed to generate quiz draft")
		return
	}
	ctx.JSON(http.StatusOK, draft)
}

// Health godoc
// @Summary Health check
// @Description Reports whether the API can reach its database.
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health [get]
func (c *QuizController) Health(ctx *gin.Context) {
	if err := c.quizService.Healthy(ctx.Request.Context()); err != nil {
		log.Error().Err(err).Msg("Health check failed")
		ctx.JSON(http.StatusServiceUnavailable, dto.HealthResponse{Status: "unavailable"})
		return
	}
	ctx.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
}

func (c *QuizController) respondError(ctx *gin.Context, err error, message string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: message, Details: verr.Problems})
	case errors.Is(err, service.ErrNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, service.ErrGeneratorUnavailable):
		ctx.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, service.ErrDraftRejected):
		ctx.JSON(http.StatusBadGateway, dto.ErrorResponse{Message: message, Details: []string{err.Error()}})
	default:
		log.Error().Err(err).Str("path", ctx.FullPath()).Msg(message)
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: message})
	}
}

func parseID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil || id == 0 {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid quiz ID format"})
		return 0, false
	}
	return uint(id), true
}
