package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/bank"
	"trivia-quiz-service/internal/config"
	"trivia-quiz-service/internal/game"
	"trivia-quiz-service/internal/infra/memory"
	pgstore "trivia-quiz-service/internal/infra/postgres"
	redisstore "trivia-quiz-service/internal/infra/redis"
	"trivia-quiz-service/internal/logger"
	"trivia-quiz-service/internal/metrics"
	transport "trivia-quiz-service/internal/transport/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

// questionSource is what the server needs from a question backend.
type questionSource interface {
	memory.QuestionLoader
	app.QuestionWriter
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := logger.New("trivia-quiz", cfg.Log.Level, cfg.Log.Format)

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	source, err := newQuestionSource(cfg, pool)
	if err != nil {
		return err
	}

	bankTTL := config.TTLDuration(cfg.Quiz.BankTTL, 10*time.Minute)
	var banks app.BankRepository
	if redisClient != nil {
		banks = redisstore.NewBankRepository(redisClient, source, bankTTL)
	} else {
		banks = memory.NewBankRepository(source, bankTTL)
	}

	var store app.SessionRepository
	if redisClient != nil {
		store = redisstore.NewSessionStore(redisClient, redisTTL)
	} else {
		store = memory.NewSessionStore()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	service := app.NewQuizService(store, banks,
		app.WithQuestionWriter(source),
		app.WithLogger(log),
		app.WithMetrics(metrics.New(reg)),
		app.WithSettings(app.Settings{
			QuestionsPerGame: cfg.Quiz.QuestionsPerGame,
			Game: game.Config{
				Budget:         cfg.Quiz.SecondsPerQuestion,
				TickInterval:   config.TTLDuration(cfg.Quiz.TickInterval, game.DefaultTickInterval),
				ShuffleOptions: cfg.Quiz.ShuffleOptions,
			},
		}),
	)

	// Fail fast on a bank that cannot serve a single game.
	if _, err := service.Categories(ctx); err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	router := transport.NewRouter(service, transport.RouterConfig{
		CORSOrigins: cfg.Server.CORSOrigins,
		Gatherer:    reg,
		Logger:      log,
	})

	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
	}

	go func() {
		log.WithField("port", finalPort).Info("starting trivia quiz service")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("failed to start server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server...")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// newQuestionSource picks Postgres when configured, then a JSON data file, then
// the built-in question set.
func newQuestionSource(cfg config.Config, pool *pgxpool.Pool) (questionSource, error) {
	if pool != nil {
		return pgstore.NewQuestionStore(pool), nil
	}
	if cfg.Quiz.DataFile != "" {
		return memory.NewFileQuestionLoader(cfg.Quiz.DataFile), nil
	}
	questions, err := bank.DefaultQuestions()
	if err != nil {
		return nil, err
	}
	return memory.NewStaticQuestionLoader(questions), nil
}
