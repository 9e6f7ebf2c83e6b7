package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateConfigHash(t *testing.T) {
	t.Run("deterministic for same config", func(t *testing.T) {
		config := map[string]interface{}{
			"embedding": map[string]string{"provider": "openai"},
			"narrative": map[string]string{"provider": "anthropic"},
		}

		first, err := CalculateConfigHash(config)
		require.NoError(t, err)
		second, err := CalculateConfigHash(config)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Len(t, first, 64)
	})

	t.Run("differs for different configs", func(t *testing.T) {
		first, err := CalculateConfigHash(map[string]string{"provider": "openai"})
		require.NoError(t, err)
		second, err := CalculateConfigHash(map[string]string{"provider": "ollama"})
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})

	t.Run("rejects unmarshalable config", func(t *testing.T) {
		_, err := CalculateConfigHash(make(chan int))
		require.Error(t, err)
	})
}
