package shortener

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jaevor/go-nanoid"
)

const (
	// DefaultAlphabet is the 62-symbol, case-sensitive alphanumeric alphabet.
	DefaultAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	DefaultIDLength = 7

	minIDLength = 2
	maxIDLength = 64
)

var errInvalidAlphabet = errors.New("invalid short id alphabet")

// CodeGenerator produces a new random short ID on every call.
type CodeGenerator func() string

// NewIDGenerator returns a generator drawing length symbols uniformly from alphabet.
func NewIDGenerator(alphabet string, length int) (CodeGenerator, error) {
	if err := validateAlphabet(alphabet); err != nil {
		return nil, err
	}

	if length < minIDLength || length > maxIDLength {
		return nil, fmt.Errorf("short id length %d out of range [%d, %d]", length, minIDLength, maxIDLength)
	}

	gen, err := nanoid.CustomASCII(alphabet, length)
	if err != nil {
		return nil, fmt.Errorf("create nanoid generator: %w", err)
	}

	return CodeGenerator(gen), nil
}

// IsValidID reports whether id is non-empty and made only of symbols from alphabet.
func IsValidID(alphabet, id string) bool {
	if id == "" {
		return false
	}

	for _, r := range id {
		if !strings.ContainsRune(alphabet, r) {
			return false
		}
	}

	return true
}

func validateAlphabet(alphabet string) error {
	if len(alphabet) < 2 || len(alphabet) > 255 {
		return fmt.Errorf("%w: need between 2 and 255 symbols, got %d", errInvalidAlphabet, len(alphabet))
	}

	seen := make(map[rune]struct{}, len(alphabet))

	for _, r := range alphabet {
		if r > 127 {
			return fmt.Errorf("%w: non-ASCII symbol %q", errInvalidAlphabet, r)
		}

		if _, dup := seen[r]; dup {
			return fmt.Errorf("%w: duplicate symbol %q", errInvalidAlphabet, r)
		}

		seen[r] = struct{}{}
	}

	return nil
}
