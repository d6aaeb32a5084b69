package fulfillment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPiece(t *testing.T) {
	t.Run("canonicalizes case and whitespace", func(t *testing.T) {
		piece, err := NewPiece("  Dupatta ")

		require.NoError(t, err)
		assert.Equal(t, Piece("dupatta"), piece)
	})

	t.Run("fails on empty name", func(t *testing.T) {
		_, err := NewPiece("   ")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty")
	})
}

func TestPiece_Matches(t *testing.T) {
	piece, err := NewPiece("shirt")
	require.NoError(t, err)

	assert.True(t, piece.Matches("Shirt"))
	assert.True(t, piece.Matches(" SHIRT "))
	assert.False(t, piece.Matches("pants"))
}

func TestNormalizePieces(t *testing.T) {
	t.Run("collapses duplicate spellings preserving order", func(t *testing.T) {
		pieces, err := NormalizePieces([]string{"Shirt", "dupatta", "SHIRT", " shirt "})

		require.NoError(t, err)
		assert.Equal(t, []Piece{"shirt", "dupatta"}, pieces)
	})

	t.Run("fails when any name is empty", func(t *testing.T) {
		_, err := NormalizePieces([]string{"shirt", ""})

		require.Error(t, err)
	})

	t.Run("empty input yields empty list", func(t *testing.T) {
		pieces, err := NormalizePieces(nil)

		require.NoError(t, err)
		assert.Empty(t, pieces)
	})
}
