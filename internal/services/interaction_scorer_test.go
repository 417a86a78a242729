package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuisinecraft/engine/pkg/models"
)

func newTestScorer(interactions []models.RecipeInteraction, now time.Time) *InteractionScorerService {
	scorer := NewInteractionScorerService(
		&fakeInteractionStore{interactions: interactions},
		NewMemoryCache(), testConfig(), testLogger(),
	)
	scorer.now = func() time.Time { return now }
	return scorer
}

func TestInteractionScorerService_WeightedScores(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()

	t.Run("anonymous caller gets empty map", func(t *testing.T) {
		scorer := newTestScorer(nil, now)
		scores, err := scorer.WeightedScores(context.Background(), uuid.Nil)
		require.NoError(t, err)
		assert.Empty(t, scores)
	})

	t.Run("type weights apply", func(t *testing.T) {
		interactions := []models.RecipeInteraction{
			{UserID: userID, RecipeID: 1, Kind: models.InteractionFavorite, Timestamp: now},
			{UserID: userID, RecipeID: 2, Kind: models.InteractionCook, Timestamp: now},
			{UserID: userID, RecipeID: 3, Kind: models.InteractionView, Timestamp: now},
			{UserID: userID, RecipeID: 4, Kind: "share", Timestamp: now},
		}
		scorer := newTestScorer(interactions, now)

		scores, err := scorer.WeightedScores(context.Background(), userID)
		require.NoError(t, err)

		// Same-day interactions carry full weight.
		assert.InDelta(t, 5.0, scores[1], 1e-9)
		assert.InDelta(t, 3.0, scores[2], 1e-9)
		assert.InDelta(t, 1.0, scores[3], 1e-9)
		assert.InDelta(t, 1.0, scores[4], 1e-9)
	})

	t.Run("recency decay is monotonic", func(t *testing.T) {
		interactions := []models.RecipeInteraction{
			{UserID: userID, RecipeID: 1, Kind: models.InteractionView, Timestamp: now},
			{UserID: userID, RecipeID: 2, Kind: models.InteractionView, Timestamp: now.AddDate(0, 0, -15)},
			{UserID: userID, RecipeID: 3, Kind: models.InteractionView, Timestamp: now.AddDate(0, 0, -29)},
		}
		scorer := newTestScorer(interactions, now)

		scores, err := scorer.WeightedScores(context.Background(), userID)
		require.NoError(t, err)

		assert.Greater(t, scores[1], scores[2])
		assert.Greater(t, scores[2], scores[3])
		// Even the oldest in-window interaction keeps at least half weight.
		assert.GreaterOrEqual(t, scores[3], 0.5)
	})

	t.Run("interactions outside the window are excluded", func(t *testing.T) {
		interactions := []models.RecipeInteraction{
			{UserID: userID, RecipeID: 1, Kind: models.InteractionFavorite, Timestamp: now.AddDate(0, 0, -31)},
		}
		scorer := newTestScorer(interactions, now)

		scores, err := scorer.WeightedScores(context.Background(), userID)
		require.NoError(t, err)
		assert.Empty(t, scores)
	})

	t.Run("scores accumulate per recipe", func(t *testing.T) {
		interactions := []models.RecipeInteraction{
			{UserID: userID, RecipeID: 1, Kind: models.InteractionView, Timestamp: now},
			{UserID: userID, RecipeID: 1, Kind: models.InteractionCook, Timestamp: now},
		}
		scorer := newTestScorer(interactions, now)

		scores, err := scorer.WeightedScores(context.Background(), userID)
		require.NoError(t, err)
		assert.InDelta(t, 4.0, scores[1], 1e-9)
	})

	t.Run("scores are cached", func(t *testing.T) {
		store := &fakeInteractionStore{interactions: []models.RecipeInteraction{
			{UserID: userID, RecipeID: 1, Kind: models.InteractionView, Timestamp: now},
		}}
		scorer := NewInteractionScorerService(store, NewMemoryCache(), testConfig(), testLogger())
		scorer.now = func() time.Time { return now }

		first, err := scorer.WeightedScores(context.Background(), userID)
		require.NoError(t, err)

		store.interactions = nil
		second, err := scorer.WeightedScores(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}
