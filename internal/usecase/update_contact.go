package usecase

import (
	"context"
	"fmt"
	"strings"

	"paprd/internal/domain"
)

// UpdateContact lets a researcher change their own display name and email.
// The channel name and public key are immutable.
type UpdateContact struct {
	Researchers ResearcherRepository
}

func (uc *UpdateContact) Execute(ctx context.Context, authChannel, fullName, email string) error {
	if fullName == "" && email == "" {
		return fmt.Errorf("%w: nothing to update", domain.ErrBadRequest)
	}
	if email != "" && !strings.Contains(email, "@") {
		return fmt.Errorf("%w: invalid email address", domain.ErrBadRequest)
	}
	return uc.Researchers.UpdateContact(ctx, authChannel, fullName, email)
}
