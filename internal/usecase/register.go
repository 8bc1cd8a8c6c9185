package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"paprd/internal/domain"
)

type RegisterRequest struct {
	ChannelName string
	FullName    string
	Email       string
}

// RegisterResearcher onboards a researcher. The public key persisted with
// the identity always comes from the ledger; key material supplied by the
// client is never trusted for this field.
type RegisterResearcher struct {
	Researchers ResearcherRepository
	Ledger      LedgerResolver
}

func (uc *RegisterResearcher) Execute(ctx context.Context, req RegisterRequest) (*domain.Researcher, error) {
	if req.ChannelName == "" {
		return nil, fmt.Errorf("%w: a channel name must be provided", domain.ErrBadRequest)
	}
	if !domain.ValidChannelName(req.ChannelName) {
		return nil, fmt.Errorf("%w: %q is not a valid channel name", domain.ErrBadRequest, req.ChannelName)
	}
	if req.Email != "" && !strings.Contains(req.Email, "@") {
		return nil, fmt.Errorf("%w: invalid email address", domain.ErrBadRequest)
	}

	if _, err := uc.Researchers.GetByChannelName(ctx, req.ChannelName); err == nil {
		return nil, domain.ErrConflict
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	pubKey, err := uc.Ledger.ChannelPublicKey(ctx, req.ChannelName)
	if err != nil {
		return nil, err
	}

	// A concurrent registration for the same channel loses here on the
	// unique index and observes ErrConflict.
	return uc.Researchers.Create(ctx, domain.Researcher{
		ChannelName: req.ChannelName,
		FullName:    req.FullName,
		Email:       req.Email,
		PublicKey:   pubKey,
	})
}
