package token

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"golang.org/x/crypto/hkdf"
)

// End-to-end token encryption. The issuer generates a throwaway secp256k1
// key pair per issuance, derives an ECDH shared secret against the
// researcher's registered channel key, and seals the tokens with AES-256-GCM
// under an HKDF-derived key. Only the holder of the matching private key can
// derive the same secret from the ephemeral public key.

var hkdfInfo = []byte("papr token encryption v1")

var errMalformedCiphertext = errors.New("malformed ciphertext")

type Ephemeral struct {
	priv *secp256k1.PrivateKey
}

func NewEphemeral() (*Ephemeral, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	return &Ephemeral{priv: priv}, nil
}

// PublicKeyHex is the compressed ephemeral public key, returned to the
// caller in the clear.
func (e *Ephemeral) PublicKeyHex() string {
	return hex.EncodeToString(e.priv.PubKey().SerializeCompressed())
}

// Seal encrypts plaintext to the recipient's compressed-hex public key.
func (e *Ephemeral) Seal(recipientPubHex string, plaintext []byte) (string, error) {
	pub, err := parsePubKeyHex(recipientPubHex)
	if err != nil {
		return "", err
	}
	gcm, err := aeadFor(e.priv, pub)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	sealed := gcm.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open is the inverse of Seal, given the recipient's private key and the
// issuer's ephemeral public key. Exercised by clients and tests; the server
// itself never decrypts.
func Open(recipientPrivHex, ephemeralPubHex, cipherB64 string) ([]byte, error) {
	privBytes, err := hex.DecodeString(recipientPrivHex)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	priv := secp256k1.PrivKeyFromBytes(privBytes)
	pub, err := parsePubKeyHex(ephemeralPubHex)
	if err != nil {
		return nil, err
	}
	gcm, err := aeadFor(priv, pub)
	if err != nil {
		return nil, err
	}
	sealed, err := base64.StdEncoding.DecodeString(cipherB64)
	if err != nil {
		return nil, errMalformedCiphertext
	}
	if len(sealed) < gcm.NonceSize() {
		return nil, errMalformedCiphertext
	}
	nonce, ct := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ct, nil)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}
	return plaintext, nil
}

func aeadFor(priv *secp256k1.PrivateKey, pub *secp256k1.PublicKey) (cipher.AEAD, error) {
	secret := secp256k1.GenerateSharedSecret(priv, pub)
	kdf := hkdf.New(sha256.New, secret, nil, hkdfInfo)
	key := make([]byte, 32)
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func parsePubKeyHex(pubHex string) (*secp256k1.PublicKey, error) {
	raw, err := hex.DecodeString(pubHex)
	if err != nil {
		return nil, fmt.Errorf("invalid public key encoding: %w", err)
	}
	pub, err := secp256k1.ParsePubKey(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid public key: %w", err)
	}
	return pub, nil
}
