package keys

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// TokenStore holds secrets outside the config file.
type TokenStore interface {
	Get(id string) (string, error)
	Put(id, secret string) error
	Delete(id string) error
}

var ErrKeyNotFound = errors.New("key not found")

// APITokenID names the bearer token guarding the JSON write endpoints.
const APITokenID = "api-token"

// ResolveAPIToken returns auth.token, falling back to the token store when
// auth.keyring is enabled. An empty result disables the bearer check.
func ResolveAPIToken(cfg *viper.Viper, store TokenStore) (string, error) {
	if tok := strings.TrimSpace(cfg.GetString("auth.token")); tok != "" {
		return tok, nil
	}
	if !cfg.GetBool("auth.keyring") || store == nil {
		return "", nil
	}
	tok, err := store.Get(APITokenID)
	if errors.Is(err, ErrKeyNotFound) {
		return "", nil
	}
	return strings.TrimSpace(tok), err
}

// Probe checks that the store can be read; a missing entry counts as usable.
func Probe(store TokenStore) error {
	if _, err := store.Get(APITokenID); err != nil && !errors.Is(err, ErrKeyNotFound) {
		return fmt.Errorf("keyring unavailable: %w", err)
	}
	return nil
}

// NewToken returns a random URL-safe token.
func NewToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
