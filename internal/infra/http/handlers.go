package http

import (
	"errors"
	"net/http"
	"time"

	"paprd/internal/domain"
	"paprd/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type registerRequest struct {
	ChannelName string `json:"channel_name"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
}

type submitRequest struct {
	Article             string `json:"article"`
	ClaimName           string `json:"claim_name"`
	Title               string `json:"title"`
	Authors             string `json:"authors"`
	Abstract            string `json:"abstract"`
	Tags                string `json:"tags"`
	CorrespondingAuthor string `json:"corresponding_author"`
	Revision            *int   `json:"revision"`
	Encrypted           bool   `json:"encrypted"`
	EncryptionPass      string `json:"encryption_passphrase"`
	ReviewPass          string `json:"review_passphrase"`
}

type articleRequest struct {
	Article string `json:"article"`
}

type solicitRequest struct {
	Article  string `json:"article"`
	Reviewer string `json:"reviewer"`
}

type reviewRequest struct {
	Article   string `json:"article"`
	Reviewer  string `json:"reviewer"`
	Text      string `json:"text"`
	Rating    int    `json:"rating"`
	Signature string `json:"signature"`
}

type recommendRequest struct {
	Article  string `json:"article"`
	Reviewer string `json:"reviewer"`
}

type contactRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

func (s *Server) handleInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":         s.cfg.ServerName,
		"channel_name": s.cfg.ServerChannel,
	})
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	researcher, err := s.register.Execute(c.Request.Context(), usecase.RegisterRequest{
		ChannelName: req.ChannelName,
		FullName:    req.FullName,
		Email:       req.Email,
	})
	if err != nil {
		// A channel that is already registered is refused, not reported as
		// a retryable conflict.
		if errors.Is(err, domain.ErrConflict) {
			writeErrorCode(c, http.StatusForbidden, "CONFLICT", "channel is already registered")
			return
		}
		writeError(c, err)
		return
	}
	registrationsTotal.Inc()
	s.log.Info("researcher registered", zap.String("channel", researcher.ChannelName))
	c.JSON(http.StatusCreated, gin.H{
		"channel_name": researcher.ChannelName,
		"server": gin.H{
			"name":         s.cfg.ServerName,
			"channel_name": s.cfg.ServerChannel,
		},
	})
}

func (s *Server) handleToken(c *gin.Context) {
	channel := c.Param("channel_name")
	if !s.allowTokenRequest(c, channel) {
		return
	}
	bundle, err := s.issueToken.Execute(c.Request.Context(), channel)
	if err != nil {
		writeError(c, err)
		return
	}
	tokensIssuedTotal.Inc()
	c.JSON(http.StatusOK, gin.H{
		"access":  bundle.Access,
		"refresh": bundle.Refresh,
		"pub_key": bundle.EphemeralPubKey,
	})
}

// allowTokenRequest rate-limits token issuance per client IP and channel.
// A limiter outage fails open: probing protection is not worth an outage
// of the only authentication path.
func (s *Server) allowTokenRequest(c *gin.Context, channel string) bool {
	if s.limiter == nil || s.tokenRateLimit <= 0 {
		return true
	}
	key := "token:" + c.ClientIP() + ":" + channel
	decision, err := s.limiter.Allow(c.Request.Context(), key, s.tokenRateLimit, s.tokenRateWindow)
	if err != nil {
		s.log.Warn("rate limiter unavailable", zap.Error(err))
		return true
	}
	if !decision.Allowed {
		retry := time.Until(decision.ResetAt)
		if retry < 0 {
			retry = 0
		}
		c.Header("Retry-After", decision.ResetAt.UTC().Format(http.TimeFormat))
		writeErrorCode(c, http.StatusTooManyRequests, "RATE_LIMITED", "too many token requests")
		return false
	}
	return true
}

func (s *Server) handleTokenRefresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Refresh == "" {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "a refresh token is required")
		return
	}
	channel, err := s.tokens.VerifyRefresh(req.Refresh)
	if err != nil {
		writeError(c, domain.ErrUnauthorized)
		return
	}
	access, err := s.tokens.MintAccess(channel)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access": access})
}

func (s *Server) handleStatus(c *gin.Context) {
	channel, ok := s.requireAuth(c)
	if !ok {
		return
	}
	report, err := s.status.Execute(c.Request.Context(), c.Param("base_claim_name"), channel)
	if err != nil {
		writeError(c, err)
		return
	}
	body := gin.H{
		"article":  report.BaseClaimName,
		"status":   string(report.Status),
		"revision": report.Revision,
		"reviewed": report.Reviewed,
	}
	if report.Current != nil {
		body["claim_name"] = report.Current.ClaimName
		body["title"] = report.Current.Title
		reviews := make([]gin.H, 0, len(report.Reviews))
		for _, rv := range report.Reviews {
			reviews = append(reviews, gin.H{
				"text":         rv.Text,
				"rating":       rv.Rating,
				"signature":    rv.Signature,
				"submitted_at": rv.SubmittedAt.UTC().Format(time.RFC3339),
			})
		}
		body["reviews"] = reviews
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) handleSubmit(c *gin.Context) {
	channel, ok := s.requireAuth(c)
	if !ok {
		return
	}
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	article, manuscript, err := s.submit.Execute(c.Request.Context(), usecase.SubmitRequest{
		Article:             req.Article,
		ClaimName:           req.ClaimName,
		Title:               req.Title,
		Authors:             req.Authors,
		Abstract:            req.Abstract,
		Tags:                req.Tags,
		CorrespondingAuthor: req.CorrespondingAuthor,
		Revision:            req.Revision,
		Encrypted:           req.Encrypted,
		EncryptionPass:      req.EncryptionPass,
		ReviewPass:          req.ReviewPass,
	}, channel)
	if err != nil {
		writeError(c, err)
		return
	}
	submissionsTotal.Inc()
	s.log.Info("manuscript submitted",
		zap.String("article", article.BaseClaimName),
		zap.String("claim", manuscript.ClaimName),
		zap.Int("revision", article.Revision))
	c.JSON(http.StatusCreated, gin.H{
		"article":    article.BaseClaimName,
		"claim_name": manuscript.ClaimName,
		"revision":   article.Revision,
		"status":     string(article.Status),
	})
}

func (s *Server) handleSolicitReview(c *gin.Context) {
	channel, ok := s.requireAuth(c)
	if !ok {
		return
	}
	var req solicitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	request, err := s.solicit.Execute(c.Request.Context(), req.Article, req.Reviewer, channel)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"article":  req.Article,
		"reviewer": req.Reviewer,
		"status":   string(request.Status),
	})
}

func (s *Server) handleAcceptReview(c *gin.Context) {
	s.handleReviewReply(c, true)
}

func (s *Server) handleDeclineReview(c *gin.Context) {
	s.handleReviewReply(c, false)
}

func (s *Server) handleReviewReply(c *gin.Context, accept bool) {
	channel, ok := s.requireAuth(c)
	if !ok {
		return
	}
	var req articleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	if err := s.respond.Execute(c.Request.Context(), req.Article, channel, accept); err != nil {
		writeError(c, err)
		return
	}
	status := "declined"
	if accept {
		status = "accepted"
	}
	c.JSON(http.StatusOK, gin.H{"article": req.Article, "status": status})
}

func (s *Server) handleSubmitReview(c *gin.Context) {
	channel, ok := s.requireAuth(c)
	if !ok {
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	if req.Reviewer != "" {
		writeError(c, domain.ErrReviewerFieldSet)
		return
	}
	review, err := s.review.Execute(c.Request.Context(), usecase.ReviewSubmission{
		Article:   req.Article,
		Text:      req.Text,
		Rating:    req.Rating,
		Signature: req.Signature,
	}, channel)
	if err != nil {
		writeError(c, err)
		return
	}
	reviewsTotal.Inc()
	s.log.Info("review filed",
		zap.String("article", req.Article),
		zap.String("reviewer", channel))
	c.JSON(http.StatusCreated, gin.H{
		"article": req.Article,
		"rating":  review.Rating,
	})
}

func (s *Server) handleRecommend(c *gin.Context) {
	channel, ok := s.requireAuth(c)
	if !ok {
		return
	}
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	if _, err := s.recommend.Execute(c.Request.Context(), req.Article, req.Reviewer, channel); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"article":  req.Article,
		"reviewer": req.Reviewer,
	})
}

func (s *Server) handleUpdateContact(c *gin.Context) {
	channel, ok := s.requireAuth(c)
	if !ok {
		return
	}
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	if err := s.contact.Execute(c.Request.Context(), channel, req.FullName, req.Email); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"channel_name": channel})
}

func writeError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrBadRequest),
		errors.Is(err, domain.ErrRevisionRequired),
		errors.Is(err, domain.ErrArticleExists),
		errors.Is(err, domain.ErrNotSignedByChannel),
		errors.Is(err, domain.ErrTitleMismatch),
		errors.Is(err, domain.ErrAuthorsMismatch),
		errors.Is(err, domain.ErrNoReviewRequested),
		errors.Is(err, domain.ErrAlreadyReplied),
		errors.Is(err, domain.ErrReviewerFieldSet),
		errors.Is(err, domain.ErrSelfRecommendation),
		errors.Is(err, domain.ErrDuplicateVouch),
		errors.Is(err, domain.ErrIneligibleReviewer):
		status, code = http.StatusBadRequest, "BAD_REQUEST"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrNotCorrespondingAuthor):
		status, code = http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrNotFound):
		status, code = http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrNoPublicKey):
		status, code = http.StatusNotAcceptable, "NO_PUBLIC_KEY"
	case errors.Is(err, domain.ErrConflict):
		status, code = http.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		status, code = http.StatusBadGateway, "UPSTREAM_UNAVAILABLE"
	}
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}
	writeErrorCode(c, status, code, message)
}

func writeErrorCode(c *gin.Context, status int, code, message string) {
	c.JSON(status, errorResponse{Code: code, Message: message})
}
