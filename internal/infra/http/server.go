package http

import (
	"net/http"
	"time"

	"paprd/internal/config"
	"paprd/internal/domain"
	"paprd/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// TokenAuthority is the slice of the token service the HTTP layer needs:
// resolving bearer tokens to channel names and minting replacements.
type TokenAuthority interface {
	VerifyAccess(tokenString string) (string, error)
	VerifyRefresh(tokenString string) (string, error)
	MintAccess(channelName string) (string, error)
}

type Server struct {
	cfg config.Config
	r   *gin.Engine
	log *zap.Logger

	register   *usecase.RegisterResearcher
	issueToken *usecase.IssueToken
	submit     *usecase.SubmitManuscript
	status     *usecase.ArticleStatus
	solicit    *usecase.SolicitReview
	respond    *usecase.RespondToReviewRequest
	review     *usecase.SubmitReview
	recommend  *usecase.RecommendReviewer
	contact    *usecase.UpdateContact

	tokens  TokenAuthority
	limiter domain.RateLimiter

	tokenRateLimit  int
	tokenRateWindow time.Duration
}

type ServerDeps struct {
	Register   *usecase.RegisterResearcher
	IssueToken *usecase.IssueToken
	Submit     *usecase.SubmitManuscript
	Status     *usecase.ArticleStatus
	Solicit    *usecase.SolicitReview
	Respond    *usecase.RespondToReviewRequest
	Review     *usecase.SubmitReview
	Recommend  *usecase.RecommendReviewer
	Contact    *usecase.UpdateContact

	Tokens      TokenAuthority
	RateLimiter domain.RateLimiter
	Logger      *zap.Logger
}

func NewServer(cfg config.Config, deps ServerDeps) *Server {
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{
		cfg:             cfg,
		r:               r,
		log:             deps.Logger,
		register:        deps.Register,
		issueToken:      deps.IssueToken,
		submit:          deps.Submit,
		status:          deps.Status,
		solicit:         deps.Solicit,
		respond:         deps.Respond,
		review:          deps.Review,
		recommend:       deps.Recommend,
		contact:         deps.Contact,
		tokens:          deps.Tokens,
		limiter:         deps.RateLimiter,
		tokenRateLimit:  cfg.TokenRateLimit,
		tokenRateWindow: cfg.TokenRateWindow,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.r.Group("/api")
	{
		api.GET("/info", s.handleInfo)
		api.POST("/register", s.handleRegister)
		api.GET("/token/:channel_name", s.handleToken)
		api.POST("/token/refresh", s.handleTokenRefresh)

		api.GET("/status/:base_claim_name", s.handleStatus)
		api.POST("/submit", s.handleSubmit)
		api.POST("/review/request", s.handleSolicitReview)
		api.POST("/review/accept", s.handleAcceptReview)
		api.POST("/review/decline", s.handleDeclineReview)
		api.POST("/review", s.handleSubmitReview)
		api.POST("/recommend", s.handleRecommend)
		api.POST("/update_contact", s.handleUpdateContact)
	}

	s.r.NoRoute(func(c *gin.Context) {
		writeErrorCode(c, http.StatusNotFound, "NOT_FOUND", "route not found")
	})
}

func (s *Server) Handler() http.Handler {
	return s.r
}

func (s *Server) Run() error {
	s.log.Info("listening", zap.String("addr", s.cfg.HTTPAddr))
	return s.r.Run(s.cfg.HTTPAddr)
}
