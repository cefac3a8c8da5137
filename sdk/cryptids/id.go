// Package cryptids generates short random identifiers.
package cryptids

import (
	"fmt"

	nanoid "github.com/jaevor/go-nanoid"
)

var (
	IDAlphabet = "bcdfghjklmnpqrstvwxyzBCDFGHJKLMNPQRSTVWXYZ0123456789"
	IDLength   = 18
)

// GenerateID creates a random string from defaults
func GenerateID() (string, error) {
	return GenerateCustomID(IDAlphabet, IDLength)
}

// GenerateCustomID creates a random string using alphabet of the given size.
func GenerateCustomID(alphabet string, size int) (string, error) {
	if len(alphabet) < 2 {
		return "", fmt.Errorf("alphabet must contain at least 2 characters")
	}
	if size < 1 {
		return "", fmt.Errorf("size must be at least 1")
	}

	gen, err := nanoid.CustomASCII(alphabet, size)
	if err != nil {
		return "", fmt.Errorf("nanoid generator: %w", err)
	}
	return gen(), nil
}
