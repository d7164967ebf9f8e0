// Package service provides inbound webhook credentials and the processors that handle
// accepted payloads.
package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"io"

	apperrors "github.com/allisson/webhooks/internal/errors"
)

// APIKeyPrefix marks keys issued for inbound webhooks.
const APIKeyPrefix = "whk_"

const apiKeyRandomBytes = 32

// APIKeyService issues inbound API keys. Keys are stored as unsalted SHA-256 digests so
// the id and hash can be matched in a single query.
type APIKeyService struct {
	random io.Reader
}

// Generate creates a new key and returns it together with its hash.
func (s *APIKeyService) Generate() (plainKey string, keyHash string, err error) {
	randomBytes := make([]byte, apiKeyRandomBytes)
	if _, err := io.ReadFull(s.random, randomBytes); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate api key")
	}

	plainKey = APIKeyPrefix + base64.RawURLEncoding.EncodeToString(randomBytes)
	return plainKey, HashAPIKey(plainKey), nil
}

// HashAPIKey returns the hex SHA-256 digest of key.
func HashAPIKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// NewAPIKeyService creates an APIKeyService backed by crypto/rand.
func NewAPIKeyService() *APIKeyService {
	return &APIKeyService{random: rand.Reader}
}
