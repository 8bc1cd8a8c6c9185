package db

import (
	"errors"

	"paprd/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var errDBUnavailable = errors.New("db unavailable")

func newID() string {
	return uuid.NewString()
}

// translate maps gorm's storage errors onto the domain taxonomy.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrConflict
	default:
		return err
	}
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
