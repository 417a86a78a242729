package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cuisinecraft/engine/internal/config"
	"github.com/cuisinecraft/engine/pkg/models"
)

// InteractionScorerService turns a user's recent engagement log into one
// recency-and-type-weighted score per recipe. Interactions older than the
// window are excluded outright; inside the window each one contributes at
// least half its base weight, rising linearly to full weight for same-day
// activity.
type InteractionScorerService struct {
	interactions InteractionReader
	cache        Cache
	config       *config.Config
	logger       *logrus.Logger
	now          func() time.Time
}

func NewInteractionScorerService(
	interactions InteractionReader,
	cache Cache,
	cfg *config.Config,
	logger *logrus.Logger,
) *InteractionScorerService {
	return &InteractionScorerService{
		interactions: interactions,
		cache:        cache,
		config:       cfg,
		logger:       logger,
		now:          time.Now,
	}
}

// WeightedScores returns the accumulated score per recipe id. Anonymous
// callers get an empty map.
func (s *InteractionScorerService) WeightedScores(ctx context.Context, userID uuid.UUID) (map[int64]float64, error) {
	if userID == uuid.Nil {
		return map[int64]float64{}, nil
	}

	cacheKey := interactionScoresKey(userID)

	scores := make(map[int64]float64)
	if err := s.cache.Get(ctx, cacheKey, &scores); err == nil {
		return scores, nil
	} else if !errors.Is(err, ErrCacheMiss) {
		s.logger.WithError(err).Warn("Failed to read cached interaction scores")
	}

	windowDays := s.config.Recommendation.Interactions.WindowDays
	now := s.now()
	cutoff := now.AddDate(0, 0, -windowDays)

	interactions, err := s.interactions.Since(ctx, userID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to load interactions: %w", err)
	}

	scores = make(map[int64]float64, len(interactions))
	for _, interaction := range interactions {
		scores[interaction.RecipeID] += s.interactionScore(&interaction, now, windowDays)
	}

	if err := s.cache.Set(ctx, cacheKey, scores, s.config.Recommendation.Caching.InteractionScoresTTL); err != nil {
		s.logger.WithError(err).Warn("Failed to cache interaction scores")
	}

	return scores, nil
}

func (s *InteractionScorerService) interactionScore(interaction *models.RecipeInteraction, now time.Time, windowDays int) float64 {
	weight := s.typeWeight(interaction.Kind)

	ageDays := now.Sub(interaction.Timestamp).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}

	timeFactor := (float64(windowDays) - ageDays) / float64(windowDays)
	if timeFactor < 0 {
		timeFactor = 0
	}

	return weight * (0.5 + 0.5*timeFactor)
}

func (s *InteractionScorerService) typeWeight(kind string) float64 {
	weights := s.config.Recommendation.Interactions
	switch kind {
	case models.InteractionFavorite:
		return weights.FavoriteWeight
	case models.InteractionCook:
		return weights.CookWeight
	case models.InteractionView:
		return weights.ViewWeight
	default:
		return weights.DefaultWeight
	}
}
