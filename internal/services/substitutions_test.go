package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestSubstitutions(t *testing.T) {
	t.Run("direct table hit", func(t *testing.T) {
		subs := SuggestSubstitutions("butter")
		assert.Contains(t, subs, "margarine")
		assert.LessOrEqual(t, len(subs), 5)
	})

	t.Run("substring table hit", func(t *testing.T) {
		subs := SuggestSubstitutions("unsalted butter")
		assert.Contains(t, subs, "margarine")
	})

	t.Run("plural resolves to singular entry", func(t *testing.T) {
		subs := SuggestSubstitutions("eggs")
		assert.Contains(t, subs, "flax egg")
	})

	t.Run("category fallback", func(t *testing.T) {
		// Rosemary has no table entry but sits in the herbs category.
		subs := SuggestSubstitutions("rosemary")
		assert.NotEmpty(t, subs)
		assert.LessOrEqual(t, len(subs), 5)
		assert.NotContains(t, subs, "rosemary")
	})

	t.Run("prefix fallback", func(t *testing.T) {
		// "porchetta" matches no table key or category member; the 3-char
		// prefix reaches the "pork" entry.
		subs := SuggestSubstitutions("porchetta")
		assert.NotEmpty(t, subs)
	})

	t.Run("nothing matches", func(t *testing.T) {
		assert.Empty(t, SuggestSubstitutions("xylitol crystals"))
	})

	t.Run("blank input", func(t *testing.T) {
		assert.Empty(t, SuggestSubstitutions("  "))
	})

	t.Run("result capped at five", func(t *testing.T) {
		for _, name := range []string{"milk", "sugar", "rice", "chicken"} {
			assert.LessOrEqual(t, len(SuggestSubstitutions(name)), 5)
		}
	})
}

func TestSuggestSubstitutions_Deterministic(t *testing.T) {
	first := SuggestSubstitutions("rosemary")
	second := SuggestSubstitutions("rosemary")
	assert.Equal(t, first, second)
}
