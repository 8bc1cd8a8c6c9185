package usecase

import (
	"context"
	"errors"
	"fmt"

	"paprd/internal/domain"
)

type SubmitRequest struct {
	Article             string
	ClaimName           string
	Title               string
	Authors             string
	Abstract            string
	Tags                string
	CorrespondingAuthor string
	Revision            *int
	Encrypted           bool
	EncryptionPass      string
	ReviewPass          string
}

// SubmitManuscript records one manuscript revision under an article after
// cross-checking the claim against the ledger's signed record. Every check
// runs before anything is written; the persistence itself is one
// transaction in the repository.
type SubmitManuscript struct {
	Articles    ArticleRepository
	Researchers ResearcherRepository
	Ledger      LedgerResolver
}

func (uc *SubmitManuscript) Execute(ctx context.Context, req SubmitRequest, authChannel string) (*domain.Article, *domain.Manuscript, error) {
	if req.CorrespondingAuthor == "" || req.CorrespondingAuthor != authChannel {
		return nil, nil, domain.ErrNotCorrespondingAuthor
	}
	if req.Revision == nil {
		return nil, nil, domain.ErrRevisionRequired
	}
	if req.Article == "" || req.ClaimName == "" {
		return nil, nil, fmt.Errorf("%w: article and claim_name are required", domain.ErrBadRequest)
	}
	if req.Title == "" || req.Authors == "" {
		return nil, nil, fmt.Errorf("%w: title and authors are required", domain.ErrBadRequest)
	}
	if req.Encrypted && req.EncryptionPass == "" {
		return nil, nil, fmt.Errorf("%w: encrypted submissions need an encryption passphrase", domain.ErrBadRequest)
	}

	author, err := uc.Researchers.GetByChannelName(ctx, authChannel)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrUnauthorized
		}
		return nil, nil, err
	}

	existing, err := uc.Articles.GetByBaseClaimName(ctx, req.Article)
	switch {
	case err == nil:
		// Revisions may only come from the article's own corresponding
		// author; a valid signature on the new claim proves authorship of
		// the claim, not ownership of the article.
		if existing.CorrespondingAuthorID != author.ID {
			return nil, nil, domain.ErrNotCorrespondingAuthor
		}
		if *req.Revision == 0 && existing.Status != domain.ArticleStatusIncomplete {
			return nil, nil, domain.ErrArticleExists
		}
	case errors.Is(err, domain.ErrNotFound):
		existing = nil
	default:
		return nil, nil, err
	}

	// The ledger record is the trust anchor: the claim must exist, carry a
	// valid channel signature from the caller, and agree with the payload.
	record, err := uc.Ledger.Resolve(ctx, req.ClaimName)
	if err != nil {
		return nil, nil, err
	}
	if !record.SignatureValid || record.SigningChannel != authChannel {
		return nil, nil, domain.ErrNotSignedByChannel
	}
	if record.Title != req.Title {
		return nil, nil, domain.ErrTitleMismatch
	}
	if record.Author != req.Authors {
		return nil, nil, domain.ErrAuthorsMismatch
	}

	article := domain.Article{
		BaseClaimName:         req.Article,
		CorrespondingAuthorID: author.ID,
		EncryptionPassphrase:  req.EncryptionPass,
		ReviewPassphrase:      req.ReviewPass,
		Revision:              *req.Revision,
	}
	if existing != nil {
		article.ID = existing.ID
	}
	manuscript := domain.Manuscript{
		ClaimName: req.ClaimName,
		Title:     req.Title,
		Authors:   req.Authors,
		Abstract:  req.Abstract,
		Tags:      req.Tags,
		PublicKey: record.PublicKey,
		Encrypted: req.Encrypted,
	}
	return uc.Articles.SubmitRevision(ctx, article, manuscript)
}
