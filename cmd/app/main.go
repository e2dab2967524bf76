// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"openlearn-backend/internal/config"
	"openlearn-backend/internal/domain/model"
	"openlearn-backend/internal/domain/ports/adapter"
	aiAdapters "openlearn-backend/internal/infra/adapters/ai"
	"openlearn-backend/internal/infra/api"
	pg "openlearn-backend/internal/infra/db/postgres"
	"openlearn-backend/internal/infra/logging"
	"openlearn-backend/internal/infra/metrics"
	"openlearn-backend/internal/infra/payment"
	red "openlearn-backend/internal/infra/redis"
	"openlearn-backend/internal/infra/sched"
	"openlearn-backend/internal/infra/web"
	"openlearn-backend/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (relaxed config checks)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("developer mode enabled")
	}
	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()
	txm := pg.NewTxManager(pool)

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)
	board := red.NewLeaderboard(redisClient)
	answerCache := red.NewAnswerCache(redisClient, cfg.Redis.TTL)

	// ---- Repositories ----
	userRepo := pg.NewUserRepo(pool)
	planRepo := pg.NewPlanRepo(pool)
	subRepo := pg.NewSubscriptionRepo(pool)
	payRepo := pg.NewPaymentRepo(pool)
	purchaseRepo := pg.NewPurchaseRequestRepo(pool)
	courseRepo := pg.NewCourseRepo(pool)
	certRepo := pg.NewCertificateRepo(pool)
	assignmentRepo := pg.NewAssignmentRepo(pool)
	submissionRepo := pg.NewSubmissionRepo(pool)
	forumRepo := pg.NewForumRepo(pool)

	// ---- Payment ----
	gateway := payment.NewMidtransGateway(&cfg.Payment, logger)
	verifier := payment.NewWebhookVerifier(cfg.Payment.Midtrans.ServerKey)

	// ---- AI Adapter (OpenAI -> Gemini -> canned fallback) ----
	fallback := aiAdapters.NewFallbackAdapter()
	var primary adapter.AssistantAdapter
	switch {
	case cfg.AI.OpenAIKey != "":
		primary, err = aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIKey, cfg.AI.DefaultModel)
		if err != nil {
			logger.Fatal().Err(err).Msg("openai adapter")
		}
		logger.Info().Str("model", cfg.AI.DefaultModel).Msg("assistant provider: openai")
	case cfg.AI.GeminiKey != "":
		primary, err = aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.DefaultModel)
		if err != nil {
			logger.Fatal().Err(err).Msg("gemini adapter")
		}
		logger.Info().Str("model", cfg.AI.DefaultModel).Msg("assistant provider: gemini")
	case cfg.Runtime.Dev:
		primary = fallback
		logger.Warn().Msg("no AI provider configured; assistant serves canned answers")
	default:
		logger.Fatal().Msg("no AI provider configured: set ai.openai_key or ai.gemini_key")
	}

	// ---- Use cases ----
	policy := model.RewardPolicy{
		BasePoints:     cfg.Rewards.BasePoints,
		StreakBonusCap: cfg.Rewards.StreakBonusCap,
	}
	userUC := usecase.NewUserUseCase(userRepo, logger)
	streakUC := usecase.NewStreakUseCase(txm, userRepo, board, rateLimiter, policy, logger)
	subUC := usecase.NewSubscriptionUseCase(txm, subRepo, planRepo, userRepo, cfg.Payment.SubscriptionDays, logger)
	payUC := usecase.NewPaymentUseCase(txm, payRepo, planRepo, courseRepo, userRepo, subUC, gateway, logger)
	purchaseUC := usecase.NewPurchaseUseCase(txm, purchaseRepo, courseRepo, subUC, logger)
	courseUC := usecase.NewCourseUseCase(txm, courseRepo, certRepo, userRepo, cfg.Certificate, logger)
	gradingUC := usecase.NewGradingUseCase(txm, assignmentRepo, submissionRepo, userRepo, board, logger)
	leaderboardUC := usecase.NewLeaderboardUseCase(txm, userRepo, board, logger)
	assistantUC := usecase.NewAssistantUseCase(primary, fallback, rateLimiter, answerCache, cfg.AI.SystemPrompt, logger)
	forumUC := usecase.NewForumUseCase(forumRepo, logger)
	statsUC := usecase.NewStatsUseCase(userRepo, subRepo, payRepo, logger)

	// ---- Public API ----
	apiSrv := api.NewServer(api.ServerDeps{
		Auth:     api.NewAuthManager(cfg.Auth),
		Verifier: verifier,

		UserUC:        userUC,
		StreakUC:      streakUC,
		SubUC:         subUC,
		PayUC:         payUC,
		PurchaseUC:    purchaseUC,
		CourseUC:      courseUC,
		GradingUC:     gradingUC,
		LeaderboardUC: leaderboardUC,
		AssistantUC:   assistantUC,
		ForumUC:       forumUC,

		Log: logger,
	})
	publicSrv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      apiSrv.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Info().Str("addr", publicSrv.Addr).Msg("public API listening")
		if err := publicSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("public API server")
		}
	}()

	// ---- Admin back office ----
	adminMux := http.NewServeMux()
	web.NewServer(statsUC, userUC, subUC, purchaseUC, gradingUC, cfg.Auth.AdminAPIKey, logger).RegisterRoutes(adminMux)
	adminSrv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.AdminPort),
		Handler:      adminMux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Info().Str("addr", adminSrv.Addr).Msg("admin API listening")
		if err := adminSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("admin API server")
		}
	}()

	// ---- Workers ----
	expiryWorker := sched.NewExpiryWorker(cfg.Worker.ExpiryInterval, subUC, logger)
	go func() { _ = expiryWorker.Run(ctx) }()
	seasonWorker := sched.NewSeasonWorker(cfg.Worker.SeasonInterval, leaderboardUC, logger)
	go func() { _ = seasonWorker.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := publicSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("public API shutdown")
	}
	if err := adminSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("admin API shutdown")
	}
}
