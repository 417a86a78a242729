package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cuisinecraft/engine/internal/config"
	"github.com/cuisinecraft/engine/pkg/models"
)

// seedLimit bounds how many top-interacted or favorited recipes seed the
// similarity expansion.
const seedLimit = 5

// RecommendationService blends interaction-based, content-based, and
// popularity-based candidates into one personalized ranked list.
type RecommendationService struct {
	recipes    RecipeReader
	dietary    *DietaryFilterService
	similarity *SimilarityIndex
	scorer     *InteractionScorerService
	cache      Cache
	config     *config.Config
	logger     *logrus.Logger
	now        func() time.Time
}

func NewRecommendationService(
	recipes RecipeReader,
	dietary *DietaryFilterService,
	similarity *SimilarityIndex,
	scorer *InteractionScorerService,
	cache Cache,
	cfg *config.Config,
	logger *logrus.Logger,
) *RecommendationService {
	return &RecommendationService{
		recipes:    recipes,
		dietary:    dietary,
		similarity: similarity,
		scorer:     scorer,
		cache:      cache,
		config:     cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// GetPersonalizedRecommendations returns up to maxResults recipes for the
// user. Anonymous callers get an empty list. Results are cached as an ordered
// id list so repeated calls with no intervening mutation are identical.
func (s *RecommendationService) GetPersonalizedRecommendations(ctx context.Context, userID uuid.UUID, maxResults int) (*models.RecommendationResponse, error) {
	if maxResults <= 0 {
		maxResults = s.config.Recommendation.MaxResults
	}

	response := &models.RecommendationResponse{
		UserID:      userID,
		Recipes:     []models.Recipe{},
		GeneratedAt: s.now(),
	}

	if userID == uuid.Nil {
		return response, nil
	}

	cacheKey := fmt.Sprintf("%s:%d", personalizedRecommendationsKey(userID), maxResults)

	var recipeIDs []int64
	if err := s.cache.Get(ctx, cacheKey, &recipeIDs); err == nil {
		recipes, err := s.recipesInOrder(ctx, recipeIDs)
		if err != nil {
			return nil, err
		}
		response.Recipes = recipes
		response.CacheHit = true
		return response, nil
	} else if !errors.Is(err, ErrCacheMiss) {
		s.logger.WithError(err).Warn("Failed to read cached recommendations")
	}

	recipeIDs, err := s.compute(ctx, userID, maxResults)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cacheKey, recipeIDs, s.config.Recommendation.Caching.RecommendationsTTL); err != nil {
		s.logger.WithError(err).Warn("Failed to cache recommendations")
	}

	recipes, err := s.recipesInOrder(ctx, recipeIDs)
	if err != nil {
		return nil, err
	}
	response.Recipes = recipes
	return response, nil
}

// FindSimilarRecipes exposes the similarity index to the API layer.
func (s *RecommendationService) FindSimilarRecipes(ctx context.Context, recipeID int64, topN int) ([]models.ScoredRecipe, error) {
	if topN <= 0 {
		topN = s.config.Recommendation.Similarity.TopN
	}
	return s.similarity.Similar(ctx, recipeID, topN)
}

// InvalidateUserCaches drops every cached artifact derived from the user's
// preferences, favorites, or interactions. Parameterized keys are removed by
// prefix so no variant survives a mutation.
func (s *RecommendationService) InvalidateUserCaches(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return nil
	}

	var failed []string
	for _, prefix := range userKeyPrefixes(userID) {
		if err := s.cache.DeleteByPrefix(ctx, prefix); err != nil {
			s.logger.WithError(err).WithField("prefix", prefix).Warn("Failed to invalidate cache prefix")
			failed = append(failed, prefix)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("failed to invalidate cache prefixes: %v", failed)
	}
	return nil
}

func (s *RecommendationService) compute(ctx context.Context, userID uuid.UUID, maxResults int) ([]int64, error) {
	restrictions, err := s.dietary.Restrictions(ctx, userID)
	if err != nil {
		return nil, err
	}

	half := maxResults / 2

	interactionBased, err := s.interactionCandidates(ctx, userID, restrictions, half)
	if err != nil {
		return nil, err
	}

	contentBased, err := s.contentCandidates(ctx, userID, restrictions, half)
	if err != nil {
		return nil, err
	}

	combined := interleave(interactionBased, contentBased, maxResults)

	if len(combined) < maxResults {
		popular, err := s.popularCandidates(ctx, restrictions, maxResults)
		if err != nil {
			return nil, err
		}
		combined = appendMissing(combined, popular, maxResults)
	}

	diversified, err := s.diversityPass(ctx, combined, maxResults)
	if err != nil {
		return nil, err
	}

	if len(diversified) > maxResults {
		diversified = diversified[:maxResults]
	}
	return diversified, nil
}

// interactionCandidates expands the user's top-scored recipes through the
// similarity index. A failed lookup for one seed is logged and skipped so a
// degraded index never empties the whole list.
func (s *RecommendationService) interactionCandidates(ctx context.Context, userID uuid.UUID, restrictions []string, limit int) ([]int64, error) {
	scores, err := s.scorer.WeightedScores(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(scores) == 0 {
		return nil, nil
	}

	ranked := make([]models.ScoredRecipe, 0, len(scores))
	for recipeID, score := range scores {
		ranked = append(ranked, models.ScoredRecipe{RecipeID: recipeID, Score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].RecipeID < ranked[j].RecipeID
	})
	if len(ranked) > seedLimit {
		ranked = ranked[:seedLimit]
	}

	var candidates []int64
	for _, seed := range ranked {
		candidates = append(candidates, seed.RecipeID)
	}
	for _, seed := range ranked {
		similar, err := s.similarity.Similar(ctx, seed.RecipeID, s.config.Recommendation.Similarity.TopN)
		if err != nil {
			s.logger.WithError(err).WithField("recipe_id", seed.RecipeID).Warn("Similarity lookup failed, skipping seed")
			continue
		}
		for _, hit := range similar {
			candidates = append(candidates, hit.RecipeID)
		}
	}

	allowed, err := s.filterAllowed(ctx, dedupe(candidates), restrictions)
	if err != nil {
		return nil, err
	}

	if limit > 0 && len(allowed) > limit {
		allowed = allowed[:limit]
	}
	return allowed, nil
}

// contentCandidates expands the user's favorites through the similarity
// index, excluding the favorites themselves. Users with no favorites fall
// back to popularity.
func (s *RecommendationService) contentCandidates(ctx context.Context, userID uuid.UUID, restrictions []string, limit int) ([]int64, error) {
	favorites, err := s.recipes.FavoriteRecipeIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(favorites) == 0 {
		return s.popularCandidates(ctx, restrictions, limit)
	}

	seeds := favorites
	if len(seeds) > seedLimit {
		seeds = seeds[:seedLimit]
	}

	favoriteSet := make(map[int64]struct{}, len(favorites))
	for _, id := range favorites {
		favoriteSet[id] = struct{}{}
	}

	var candidates []int64
	for _, seed := range seeds {
		similar, err := s.similarity.Similar(ctx, seed, s.config.Recommendation.Similarity.TopN)
		if err != nil {
			s.logger.WithError(err).WithField("recipe_id", seed).Warn("Similarity lookup failed, skipping seed")
			continue
		}
		for _, hit := range similar {
			if _, isFavorite := favoriteSet[hit.RecipeID]; isFavorite {
				continue
			}
			candidates = append(candidates, hit.RecipeID)
		}
	}

	allowed, err := s.filterAllowed(ctx, dedupe(candidates), restrictions)
	if err != nil {
		return nil, err
	}

	if limit > 0 && len(allowed) > limit {
		allowed = allowed[:limit]
	}
	return allowed, nil
}

func (s *RecommendationService) popularCandidates(ctx context.Context, restrictions []string, limit int) ([]int64, error) {
	popular, err := s.recipes.PopularRecipeIDs(ctx)
	if err != nil {
		return nil, err
	}

	allowed, err := s.filterAllowed(ctx, popular, restrictions)
	if err != nil {
		return nil, err
	}

	if limit > 0 && len(allowed) > limit {
		allowed = allowed[:limit]
	}
	return allowed, nil
}

// filterAllowed keeps the ids whose recipes satisfy every restriction,
// preserving input order. Ids no longer in the catalog are dropped.
func (s *RecommendationService) filterAllowed(ctx context.Context, ids []int64, restrictions []string) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	recipes, err := s.recipes.ByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	allowed := make([]int64, 0, len(ids))
	for _, id := range ids {
		recipe, ok := recipes[id]
		if !ok {
			continue
		}
		if Allowed(&recipe, restrictions) {
			allowed = append(allowed, id)
		}
	}
	return allowed, nil
}

// diversityPass spreads the list across diversity keys: one recipe per
// distinct first-dietary-tag until each key appearing among the candidates
// has been used, then backfills remaining slots in original order.
func (s *RecommendationService) diversityPass(ctx context.Context, ids []int64, maxResults int) ([]int64, error) {
	if len(ids) == 0 {
		return ids, nil
	}

	recipes, err := s.recipes.ByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	seenKeys := make(map[string]struct{})
	picked := make(map[int64]struct{})
	result := make([]int64, 0, maxResults)

	for _, id := range ids {
		if len(result) >= maxResults {
			break
		}
		recipe, ok := recipes[id]
		if !ok {
			continue
		}
		key := recipe.DiversityKey()
		if _, used := seenKeys[key]; used {
			continue
		}
		seenKeys[key] = struct{}{}
		picked[id] = struct{}{}
		result = append(result, id)
	}

	for _, id := range ids {
		if len(result) >= maxResults {
			break
		}
		if _, ok := recipes[id]; !ok {
			continue
		}
		if _, already := picked[id]; already {
			continue
		}
		picked[id] = struct{}{}
		result = append(result, id)
	}

	return result, nil
}

func (s *RecommendationService) recipesInOrder(ctx context.Context, ids []int64) ([]models.Recipe, error) {
	if len(ids) == 0 {
		return []models.Recipe{}, nil
	}

	byID, err := s.recipes.ByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	recipes := make([]models.Recipe, 0, len(ids))
	for _, id := range ids {
		if recipe, ok := byID[id]; ok {
			recipes = append(recipes, recipe)
		}
	}
	return recipes, nil
}

// interleave alternates between the two candidate lists, skipping ids already
// taken, until both exhaust or the limit is hit.
func interleave(first, second []int64, limit int) []int64 {
	result := make([]int64, 0, limit)
	seen := make(map[int64]struct{}, limit)

	i, j := 0, 0
	for (i < len(first) || j < len(second)) && len(result) < limit {
		if i < len(first) {
			if _, dup := seen[first[i]]; !dup {
				seen[first[i]] = struct{}{}
				result = append(result, first[i])
			}
			i++
		}
		if len(result) >= limit {
			break
		}
		if j < len(second) {
			if _, dup := seen[second[j]]; !dup {
				seen[second[j]] = struct{}{}
				result = append(result, second[j])
			}
			j++
		}
	}
	return result
}

func appendMissing(base, extra []int64, limit int) []int64 {
	seen := make(map[int64]struct{}, len(base))
	for _, id := range base {
		seen[id] = struct{}{}
	}
	for _, id := range extra {
		if len(base) >= limit {
			break
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		base = append(base, id)
	}
	return base
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
