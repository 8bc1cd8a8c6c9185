package domain

import "errors"

var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("already exists")
	ErrBadRequest          = errors.New("bad request")
	ErrNoPublicKey         = errors.New("no public key on file")
	ErrUpstreamUnavailable = errors.New("ledger node unavailable")
	ErrInvariantViolation  = errors.New("invariant violation")

	ErrNotCorrespondingAuthor = errors.New("not authenticated as corresponding author")
	ErrRevisionRequired       = errors.New("a revision number is required")
	ErrArticleExists          = errors.New("article already exists, submit a revision instead")
	ErrNotSignedByChannel     = errors.New("claim is not signed by the authenticated channel")
	ErrTitleMismatch          = errors.New("title does not match the published claim")
	ErrAuthorsMismatch        = errors.New("authors do not match the published claim")

	ErrNoReviewRequested  = errors.New("no review was requested")
	ErrAlreadyReplied     = errors.New("already replied to this review request")
	ErrReviewerFieldSet   = errors.New("reviewer is taken from the authenticated token and must not be supplied")
	ErrSelfRecommendation = errors.New("cannot recommend yourself")
	ErrDuplicateVouch     = errors.New("already made this recommendation")
	ErrIneligibleReviewer = errors.New("reviewer is not eligible for this article")
)
