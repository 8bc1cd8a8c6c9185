package usecase

import (
	"context"

	"paprd/internal/domain"
)

type ResearcherRepository interface {
	Create(ctx context.Context, r domain.Researcher) (*domain.Researcher, error)
	GetByChannelName(ctx context.Context, channelName string) (*domain.Researcher, error)
	GetByID(ctx context.Context, id string) (*domain.Researcher, error)
	UpdateContact(ctx context.Context, channelName, fullName, email string) error
}

type ArticleRepository interface {
	GetByBaseClaimName(ctx context.Context, baseClaimName string) (*domain.Article, error)
	SubmitRevision(ctx context.Context, article domain.Article, m domain.Manuscript) (*domain.Article, *domain.Manuscript, error)
	CurrentManuscript(ctx context.Context, articleID string) (*domain.Manuscript, error)
	GetManuscriptByClaimName(ctx context.Context, claimName string) (*domain.Manuscript, error)
}

type ReviewRequestRepository interface {
	CreatePending(ctx context.Context, articleID, reviewerID string) (*domain.ReviewRequest, error)
	ListByArticleAndReviewer(ctx context.Context, articleID, reviewerID string) ([]domain.ReviewRequest, error)
	TransitionStatus(ctx context.Context, requestID string, from, to domain.RequestStatus) error
}

type ReviewRepository interface {
	CreateForRequest(ctx context.Context, review domain.Review) (*domain.Review, error)
	ListByManuscript(ctx context.Context, manuscriptID string) ([]domain.Review, error)
}

type RecommendationRepository interface {
	Create(ctx context.Context, rec domain.ReviewerRecommendation) (*domain.ReviewerRecommendation, error)
	Exists(ctx context.Context, articleID, voucherID, reviewerID string) (bool, error)
	CountForReviewer(ctx context.Context, articleID, reviewerID string) (int64, error)
}

// LedgerResolver is the read-only query interface over the external ledger
// node. Everything the server trusts about a claim comes through here.
type LedgerResolver interface {
	Resolve(ctx context.Context, name string) (*domain.PublicationRecord, error)
	ChannelPublicKey(ctx context.Context, channelName string) (string, error)
}

// TokenSealer mints an access/refresh pair and encrypts it to a channel
// public key.
type TokenSealer interface {
	SealPair(channelName, channelPubKey string) (domain.TokenBundle, error)
}

type EligibilityPolicy interface {
	Evaluate(ctx context.Context, input domain.EligibilityInput) (domain.EligibilityResult, error)
}
