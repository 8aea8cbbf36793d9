// Package auth provides password hashing and access token handling.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// KeyFileName is the name of the generated key inside the data directory.
const KeyFileName = "auth.key"

// ResolveKey returns the hex encoded token key. A configured key wins;
// otherwise the key is loaded from <dataPath>/auth.key, generating it on
// first start.
func ResolveKey(configured, dataPath string) (string, error) {
	if configured != "" {
		if err := validateKeyHex(configured); err != nil {
			return "", fmt.Errorf("configured auth key: %w", err)
		}
		return configured, nil
	}

	key, err := LoadOrGenerateKey(dataPath)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(key), nil
}

// LoadOrGenerateKey loads the PASETO v4 key stored in <dataPath>/auth.key,
// creating it with owner-only permissions if it does not exist yet.
func LoadOrGenerateKey(dataPath string) ([]byte, error) {
	keyPath := filepath.Join(dataPath, KeyFileName)

	//#nosec G304 -- path derived from configured data directory
	if raw, err := os.ReadFile(keyPath); err == nil {
		keyHex := strings.TrimSpace(string(raw))
		if err := validateKeyHex(keyHex); err != nil {
			return nil, fmt.Errorf("auth key %s: %w", keyPath, err)
		}
		return hex.DecodeString(keyHex)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read auth key: %w", err)
	}

	key := make([]byte, keyBytesSize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate auth key: %w", err)
	}

	if err := os.MkdirAll(dataPath, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := os.WriteFile(keyPath, []byte(hex.EncodeToString(key)), 0o600); err != nil {
		return nil, fmt.Errorf("failed to save auth key: %w", err)
	}

	return key, nil
}

func validateKeyHex(keyHex string) error {
	if len(keyHex) != keyHexSize {
		return fmt.Errorf("expected %d hex chars, got %d", keyHexSize, len(keyHex))
	}
	if _, err := hex.DecodeString(keyHex); err != nil {
		return fmt.Errorf("not valid hex: %w", err)
	}
	return nil
}
