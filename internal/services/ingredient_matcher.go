package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cuisinecraft/engine/internal/config"
	"github.com/cuisinecraft/engine/pkg/models"
)

// DefaultMaxMissing bounds how many ingredients an almost-match may lack.
const DefaultMaxMissing = 2

// IngredientMatcherService finds recipes by the ingredients a user has on
// hand. Matching is tolerant: substring containment in either direction plus
// singular/plural variants, all on normalized text.
type IngredientMatcherService struct {
	recipes RecipeReader
	dietary *DietaryFilterService
	cache   Cache
	config  *config.Config
	logger  *logrus.Logger
}

func NewIngredientMatcherService(
	recipes RecipeReader,
	dietary *DietaryFilterService,
	cache Cache,
	cfg *config.Config,
	logger *logrus.Logger,
) *IngredientMatcherService {
	return &IngredientMatcherService{
		recipes: recipes,
		dietary: dietary,
		cache:   cache,
		config:  cfg,
		logger:  logger,
	}
}

// Search returns the user's allowed recipes in which every term of the
// comma-separated query matches at least one ingredient, truncated to limit.
// A blank query returns nothing without touching storage.
func (s *IngredientMatcherService) Search(ctx context.Context, userID uuid.UUID, query string, limit int) ([]models.Recipe, error) {
	terms := splitQueryTerms(query)
	if len(terms) == 0 {
		return nil, nil
	}

	candidates, err := s.dietary.AllowedForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var matched []models.Recipe
	for _, recipe := range candidates {
		if matchedTermCount(&recipe, terms) == len(terms) {
			matched = append(matched, recipe)
			if limit > 0 && len(matched) >= limit {
				break
			}
		}
	}
	return matched, nil
}

// AlmostMatching returns allowed recipes the query terms nearly cover: at
// least one matched ingredient and between 1 and maxMissing unmatched ones,
// ranked by a composite of ingredient coverage, term coverage, and a small
// penalty per missing ingredient. Fully covered recipes belong to Search and
// are excluded here.
func (s *IngredientMatcherService) AlmostMatching(ctx context.Context, userID uuid.UUID, query string, limit, maxMissing int) ([]models.AlmostMatch, error) {
	terms := splitQueryTerms(query)
	if len(terms) == 0 {
		return nil, nil
	}
	if maxMissing <= 0 {
		maxMissing = DefaultMaxMissing
	}

	cacheKey := almostMatchKey(userID, almostMatchFingerprint(terms, limit, maxMissing))

	var matches []models.AlmostMatch
	if err := s.cache.Get(ctx, cacheKey, &matches); err == nil {
		return matches, nil
	} else if !errors.Is(err, ErrCacheMiss) {
		s.logger.WithError(err).Warn("Failed to read cached almost-matches")
	}

	candidates, err := s.dietary.AllowedForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	matches = []models.AlmostMatch{}
	for _, recipe := range candidates {
		if len(recipe.Ingredients) == 0 {
			continue
		}

		missing := missingIngredients(&recipe, terms)
		if len(missing) < 1 || len(missing) > maxMissing {
			continue
		}

		matchedIngredients := len(recipe.Ingredients) - len(missing)
		if matchedIngredients < 1 {
			continue
		}
		matchedTerms := matchedTermCount(&recipe, terms)

		score := 3*float64(matchedIngredients)/float64(len(recipe.Ingredients)) +
			2*float64(matchedTerms)/float64(len(terms)) -
			0.1*float64(len(missing))

		matches = append(matches, models.AlmostMatch{
			Recipe:             recipe,
			MissingIngredients: missing,
			Score:              score,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Recipe.ID < matches[j].Recipe.ID
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	if err := s.cache.Set(ctx, cacheKey, matches, s.config.Recommendation.Caching.AlmostMatchTTL); err != nil {
		s.logger.WithError(err).Warn("Failed to cache almost-matches")
	}

	return matches, nil
}

// termMatchesIngredient applies normalized containment in either direction,
// retrying with the trailing "s" stripped so "tomatoes" and "tomato" meet in
// the middle.
func termMatchesIngredient(term, ingredient string) bool {
	term = normalizeText(term)
	ingredient = normalizeText(ingredient)
	if term == "" || ingredient == "" {
		return false
	}

	if strings.Contains(ingredient, term) || strings.Contains(term, ingredient) {
		return true
	}

	singularTerm := singularize(term)
	singularIngredient := singularize(ingredient)
	return strings.Contains(singularIngredient, singularTerm) ||
		strings.Contains(singularTerm, singularIngredient)
}

func matchedTermCount(recipe *models.Recipe, terms []string) int {
	count := 0
	for _, term := range terms {
		for _, ingredient := range recipe.Ingredients {
			if termMatchesIngredient(term, ingredient.Name) {
				count++
				break
			}
		}
	}
	return count
}

// missingIngredients lists recipe ingredients no query term matches,
// preserving recipe order.
func missingIngredients(recipe *models.Recipe, terms []string) []string {
	var missing []string
	for _, ingredient := range recipe.Ingredients {
		covered := false
		for _, term := range terms {
			if termMatchesIngredient(term, ingredient.Name) {
				covered = true
				break
			}
		}
		if !covered {
			missing = append(missing, ingredient.Name)
		}
	}
	return missing
}

// splitQueryTerms breaks a comma-separated ingredient query into normalized,
// deduplicated terms.
func splitQueryTerms(query string) []string {
	parts := strings.Split(query, ",")
	terms := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		normalized := normalizeText(part)
		if normalized == "" {
			continue
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		terms = append(terms, normalized)
	}
	return terms
}

func almostMatchFingerprint(terms []string, limit, maxMissing int) string {
	sorted := append([]string(nil), terms...)
	sort.Strings(sorted)

	sum := sha256.Sum256([]byte(fmt.Sprintf("%d|%d|%s", limit, maxMissing, strings.Join(sorted, ","))))
	return hex.EncodeToString(sum[:8])
}
