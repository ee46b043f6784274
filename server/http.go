package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"claif-api/config"
	"claif-api/constant"
	apiHandler "claif-api/handler"
	"claif-api/pkg/rabbitmq"
	"claif-api/repository"
	"claif-api/service"
)

func RunHttp(cfg *config.Config) {
	ctx, cancel := signal.NotifyContext(setupLogger(cfg), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zerolog.Ctx(ctx).Info().Str("env", cfg.App.Environment).Bool("isProduction", cfg.App.Environment == constant.EnvironmentProduction.String()).Send()
	if cfg.App.Environment == constant.EnvironmentProduction.String() {
		gin.SetMode(gin.ReleaseMode)
	}

	repo := repository.NewRepo(cfg.DB)
	recordingService := service.NewRecordingService(repo)
	reviewService := service.NewReviewService(repo)
	userService := service.NewUserService(repo)
	audioService := service.NewAudioService(repo, cfg)

	if err := audioService.EnsureBucket(ctx); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to ensure audio bucket")
	}

	conn, err := config.NewRabbitMQConn(ctx, cfg.Queue)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("NewRabbitMQConn")
	}

	var publisher rabbitmq.Publisher
	if conn != nil {
		publisher = rabbitmq.NewPublisher(conn, cfg.Queue)
	}
	deletionService := service.NewDeletionService(repo, publisher)

	if conn != nil {
		deletionConsumer := rabbitmq.NewConsumer(conn, cfg.Queue, cfg.Server.Workers, apiHandler.DeletionRequestHandler)
		go func() {
			err := deletionConsumer.Consume(ctx, apiHandler.ServiceDependencies{DeletionService: deletionService})
			if err != nil {
				zerolog.Ctx(ctx).Error().Err(err).Msg("deletion consumer error")
			}
		}()
	}

	r := gin.Default()
	addHealth(r)
	addRoutes(ctx, r, &apiHandler.Handler{
		Recordings: recordingService,
		Reviews:    reviewService,
		Audio:      audioService,
		Deletions:  deletionService,
	}, userService)

	handler := http.Server{
		Handler:           r,
		Addr:              fmt.Sprintf(":%s", cfg.Server.HttpPort),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zerolog.Ctx(ctx).Info().Str("env", cfg.App.Environment).Msg("start http server")
		if err := handler.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zerolog.Ctx(ctx).Error().Str("env", cfg.App.Environment).Msg(err.Error())
		}
	}()

	<-ctx.Done()
	zerolog.Ctx(ctx).Info().Msg("shutting down server")
	if err := handler.Shutdown(ctx); err != nil {
		zerolog.Ctx(ctx).Error().Str("env", cfg.App.Environment).Msg(err.Error())
	}

	zerolog.Ctx(ctx).Info().Str("env", cfg.App.Environment).Msg("server shutdown")
}

func addRoutes(ctx context.Context, r *gin.Engine, h *apiHandler.Handler, users service.UserService) {
	r.Use(apiHandler.RequestContext(*zerolog.Ctx(ctx)))

	v1 := r.Group("/api/v1")
	v1.GET("/recordings", h.ListRecordings)
	v1.GET("/recordings/:id", h.ReadRecording)

	authed := v1.Group("", apiHandler.Authenticated(users))
	authed.POST("/recordings/create", h.CreateRecording)
	authed.POST("/recordings/update", h.UpdateRecording)
	authed.POST("/recordings/publish", h.PublishRecording)
	authed.POST("/recordings/lock", h.LockRecording)
	authed.POST("/annotation-reviews/create", h.CreateAnnotationReview)
	authed.POST("/audio-files/create", h.CreateAudioFile)
	authed.POST("/audio-transcriptions/create", h.CreateTranscription)
	authed.POST("/deletion-requests/create", h.CreateDeletionRequest)
}

func addHealth(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})
}

func setupLogger(cfg *config.Config) context.Context {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.App.Environment == constant.EnvironmentDevelop.String() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// Log to standard output
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(context.Background())

	return ctx
}
