package domain

// PublicationRecord is the signed record a claim name resolves to on the
// external ledger. Its fields are the trust anchor for submissions: the
// server never accepts client-asserted title or authors without
// cross-checking them against this record.
type PublicationRecord struct {
	ClaimName      string
	ClaimID        string
	SigningChannel string
	SignatureValid bool
	Title          string
	Author         string
	PublicKey      string
}
