package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuisinecraft/engine/pkg/models"
)

func TestAllowed_ConjunctiveMatching(t *testing.T) {
	r := recipe(1, "Veggie Bowl", []string{"vegetarian", "gluten-free"}, "rice", "beans")

	tests := []struct {
		name         string
		restrictions []string
		want         bool
	}{
		{"no restrictions always allowed", nil, true},
		{"single satisfied restriction", []string{"vegetarian"}, true},
		{"all restrictions satisfied", []string{"vegetarian", "gluten-free"}, true},
		{"one unsatisfied restriction fails", []string{"vegetarian", "vegan-friendly"}, false},
		{"unknown restriction fails", []string{"halal"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allowed(&r, tt.restrictions))
		})
	}
}

func TestDietaryFilterService_Restrictions(t *testing.T) {
	userID := uuid.New()
	prefs := &fakePreferenceStore{restrictions: map[uuid.UUID][]string{
		userID: {"vegetarian"},
	}}
	recipes := &fakeRecipeStore{}
	cache := NewMemoryCache()

	svc := NewDietaryFilterService(recipes, prefs, cache, testConfig(), testLogger())

	t.Run("anonymous user has none", func(t *testing.T) {
		restrictions, err := svc.Restrictions(context.Background(), uuid.Nil)
		require.NoError(t, err)
		assert.Empty(t, restrictions)
	})

	t.Run("loads and caches restrictions", func(t *testing.T) {
		restrictions, err := svc.Restrictions(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, []string{"vegetarian"}, restrictions)

		// Mutate the backing store; the cached copy must still be served.
		prefs.restrictions[userID] = []string{"halal"}
		restrictions, err = svc.Restrictions(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, []string{"vegetarian"}, restrictions)
	})
}

func TestDietaryFilterService_Filter(t *testing.T) {
	recipes := []models.Recipe{
		recipe(1, "Veggie Bowl", []string{"vegetarian", "gluten-free"}),
		recipe(2, "Beef Stew", nil),
		recipe(3, "Vegan Chili", []string{"vegetarian", "vegan-friendly"}),
	}

	svc := NewDietaryFilterService(&fakeRecipeStore{}, &fakePreferenceStore{}, NewMemoryCache(), testConfig(), testLogger())

	filtered := svc.Filter(recipes, []string{"vegetarian"})
	require.Len(t, filtered, 2)
	assert.Equal(t, int64(1), filtered[0].ID)
	assert.Equal(t, int64(3), filtered[1].ID)

	assert.Len(t, svc.Filter(recipes, nil), 3)
}
