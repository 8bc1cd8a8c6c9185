package main

import (
	"context"
	"log"

	"paprd/internal/config"
	"paprd/internal/domain"
	"paprd/internal/infra/db"
	httpinfra "paprd/internal/infra/http"
	"paprd/internal/infra/ledger"
	"paprd/internal/infra/policy"
	"paprd/internal/infra/ratelimit"
	"paprd/internal/infra/token"
	"paprd/internal/usecase"

	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config load error", zap.Error(err))
	}

	store, err := db.NewStore(cfg)
	if err != nil {
		logger.Fatal("failed to init store", zap.Error(err))
	}

	ledgerClient, err := ledger.NewClient(cfg.LedgerURL, cfg.LedgerTimeout, logger)
	if err != nil {
		logger.Fatal("failed to init ledger client", zap.Error(err))
	}

	engine, err := policy.NewEngine(context.Background())
	if err != nil {
		logger.Fatal("failed to prepare eligibility policy", zap.Error(err))
	}

	var limiter domain.RateLimiter
	if cfg.RedisAddr != "" {
		limiter, err = ratelimit.NewRedisLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Fatal("failed to init redis limiter", zap.Error(err))
		}
	} else {
		limiter = ratelimit.NewMemoryLimiter(nil)
	}

	tokens := token.NewService(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)

	researchers := db.NewResearcherRepository(store.DB)
	articles := db.NewArticleRepository(store.DB)
	requests := db.NewReviewRequestRepository(store.DB)
	reviews := db.NewReviewRepository(store.DB)
	recommendations := db.NewRecommendationRepository(store.DB)

	srv := httpinfra.NewServer(*cfg, httpinfra.ServerDeps{
		Register:   &usecase.RegisterResearcher{Researchers: researchers, Ledger: ledgerClient},
		IssueToken: &usecase.IssueToken{Researchers: researchers, Tokens: tokens},
		Submit:     &usecase.SubmitManuscript{Articles: articles, Researchers: researchers, Ledger: ledgerClient},
		Status:     &usecase.ArticleStatus{Articles: articles, Researchers: researchers, Reviews: reviews},
		Solicit: &usecase.SolicitReview{
			Articles:        articles,
			Researchers:     researchers,
			Requests:        requests,
			Recommendations: recommendations,
			Policy:          engine,
		},
		Respond:     &usecase.RespondToReviewRequest{Articles: articles, Researchers: researchers, Requests: requests},
		Review:      &usecase.SubmitReview{Articles: articles, Researchers: researchers, Requests: requests, Reviews: reviews},
		Recommend:   &usecase.RecommendReviewer{Articles: articles, Researchers: researchers, Recommendations: recommendations},
		Contact:     &usecase.UpdateContact{Researchers: researchers},
		Tokens:      tokens,
		RateLimiter: limiter,
		Logger:      logger,
	})
	if err := srv.Run(); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
