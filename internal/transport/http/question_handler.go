package http

import (
	"net/http"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/domain"

	"github.com/gin-gonic/gin"
)

type QuestionHandler struct {
	service *app.QuizService
}

func NewQuestionHandler(service *app.QuizService) *QuestionHandler {
	return &QuestionHandler{service: service}
}

type createQuestionRequest struct {
	Category string   `json:"category" binding:"required"`
	Prompt   string   `json:"prompt" binding:"required"`
	Options  []string `json:"options" binding:"required"`
	Correct  *int     `json:"correct" binding:"required"`
}

func (h *QuestionHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.Categories(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var req createQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	category, err := domain.ParseCategory(req.Category)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	q, err := h.service.AddQuestion(c.Request.Context(), domain.Question{
		Category: category,
		Prompt:   req.Prompt,
		Options:  req.Options,
		Correct:  *req.Correct,
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, q)
}
