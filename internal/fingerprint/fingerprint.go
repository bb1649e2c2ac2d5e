// Package fingerprint derives a stable content identity for a parsed card.
// Two cards with the same normalized question, answer and context share a
// fingerprint, which is what lets re-imports recognize unchanged cards.
package fingerprint

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/conorfennell/ngurra/internal/parser"
)

// Normalize cleans each of the card's fields and joins them. It trims
// whitespace, lowercases, and normalizes line endings per field before
// joining with newlines so adjacent fields can never run together.
func Normalize(card parser.Card) string {
	normalizePart := func(part string) string {
		p := strings.ToLower(part)
		p = strings.TrimSpace(p)
		p = strings.ReplaceAll(p, "\r\n", "\n")
		return p
	}

	q := normalizePart(card.Question)
	a := normalizePart(card.Answer)
	c := normalizePart(card.Context)

	return strings.Join([]string{q, a, c}, "\n")
}

// Sum normalizes the card and returns its SHA-256 hash as a hex string.
func Sum(card parser.Card) string {
	normalized := Normalize(card)
	hashBytes := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%x", hashBytes)
}
