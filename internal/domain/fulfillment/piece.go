package fulfillment

import (
	"strings"

	"github.com/garmentflow/backend/internal/domain/shared"
)

// Piece is the canonical identifier of one garment section (shirt, dupatta,
// pouch, ...). It is always stored lower-cased and trimmed so that two spellings
// of the same section collapse to one identity.
type Piece string

// NewPiece canonicalizes a raw section name into a Piece
func NewPiece(raw string) (Piece, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return "", shared.NewDomainError("INVALID_PIECE", "Section name cannot be empty")
	}
	return Piece(normalized), nil
}

// String returns the canonical section name
func (p Piece) String() string {
	return string(p)
}

// Matches reports whether a raw name refers to this piece (case-insensitive)
func (p Piece) Matches(raw string) bool {
	return string(p) == strings.ToLower(strings.TrimSpace(raw))
}

// NormalizePieces canonicalizes a list of raw section names, collapsing
// duplicates while preserving first-seen order
func NormalizePieces(raw []string) ([]Piece, error) {
	seen := make(map[Piece]bool, len(raw))
	pieces := make([]Piece, 0, len(raw))
	for _, name := range raw {
		piece, err := NewPiece(name)
		if err != nil {
			return nil, err
		}
		if seen[piece] {
			continue
		}
		seen[piece] = true
		pieces = append(pieces, piece)
	}
	return pieces, nil
}
