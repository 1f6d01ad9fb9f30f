package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinishFlipResult(t *testing.T) {
	t.Run("one row flipped finishes the game", func(t *testing.T) {
		assert.NoError(t, finishFlipResult(1, nil))
	})

	t.Run("zero rows means a racing finish already won", func(t *testing.T) {
		err := finishFlipResult(0, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, errGameFinished)
	})

	t.Run("db errors pass through unchanged", func(t *testing.T) {
		dbErr := errors.New("connection reset")
		err := finishFlipResult(0, dbErr)
		require.ErrorIs(t, err, dbErr)
		assert.NotErrorIs(t, err, errGameFinished)
	})
}
