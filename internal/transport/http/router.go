package http

import (
	"errors"
	"net/http"
	"time"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/flow"
	"trivia-quiz-service/internal/game"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// RouterConfig carries the optional parts of the HTTP surface.
type RouterConfig struct {
	CORSOrigins []string
	Gatherer    prometheus.Gatherer
	Logger      *logrus.Entry
}

// NewRouter wires the REST endpoints, metrics and the play websocket.
func NewRouter(service *app.QuizService, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Logger != nil {
		r.Use(requestLogger(cfg.Logger))
	}
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  cfg.CORSOrigins,
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Content-Type", "Accept", "Origin"},
			ExposeHeaders: []string{"Content-Length"},
			MaxAge:        12 * time.Hour,
		}))
	}

	questions := NewQuestionHandler(service)
	ws := NewWSHandler(service, cfg.Logger)

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	api := r.Group("/api")
	{
		api.GET("/categories", questions.ListCategories)
		api.POST("/questions", questions.CreateQuestion)
	}
	if cfg.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}
	r.GET("/ws", gin.WrapF(ws.ServeWS))
	return r
}

func requestLogger(log *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Debug("http request")
	}
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidQuestion),
		errors.Is(err, domain.ErrUnknownCategory),
		errors.Is(err, domain.ErrInvalidCount),
		errors.Is(err, game.ErrInvalidOption):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDuplicateQuestion),
		errors.Is(err, flow.ErrInvalidTransition),
		errors.Is(err, game.ErrAnswerLocked),
		errors.Is(err, game.ErrNotRevealed):
		return http.StatusConflict
	case errors.Is(err, domain.ErrFlowNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientQuestions):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrReadOnlyBank):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
