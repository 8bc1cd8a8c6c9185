package domain

// TokenBundle is the result of a token issuance. Access and Refresh are
// AES-GCM ciphertexts under a key derived from an ephemeral ECDH exchange
// with the researcher's registered public key; EphemeralPubKey is returned
// in the clear so the legitimate key holder can derive the same secret.
type TokenBundle struct {
	Access          string
	Refresh         string
	EphemeralPubKey string
}
