package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/cuisinecraft/engine/internal/config"
	"github.com/cuisinecraft/engine/pkg/models"
)

// SimilarityIndex holds TF-IDF vectors for the whole recipe catalog and
// answers nearest-neighbor queries by cosine similarity. The index is built
// lazily, held in memory, and rebuilt once it outlives its TTL.
type SimilarityIndex struct {
	recipes RecipeReader
	config  *config.Config
	logger  *logrus.Logger

	mu       sync.RWMutex
	docs     []indexedDoc
	position map[int64]int
	builtAt  time.Time
	now      func() time.Time
}

// indexedDoc is one recipe's sparse, l2-normalized TF-IDF vector. Term
// indices are ascending so dot products run as a single merge pass.
type indexedDoc struct {
	recipeID int64
	terms    []int
	weights  []float64
}

func NewSimilarityIndex(recipes RecipeReader, cfg *config.Config, logger *logrus.Logger) *SimilarityIndex {
	return &SimilarityIndex{
		recipes:  recipes,
		config:   cfg,
		logger:   logger,
		position: make(map[int64]int),
		now:      time.Now,
	}
}

// Similar returns up to topN recipes most similar to the given one, highest
// cosine first, ties broken by ascending recipe id. Zero-similarity recipes
// are never returned. An id absent from the index yields an empty result.
func (s *SimilarityIndex) Similar(ctx context.Context, recipeID int64, topN int) ([]models.ScoredRecipe, error) {
	if err := s.ensureFresh(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.position[recipeID]
	if !ok {
		return nil, nil
	}

	query := s.docs[pos]
	scored := make([]models.ScoredRecipe, 0, len(s.docs))
	for i, doc := range s.docs {
		if i == pos {
			continue
		}
		score := sparseDot(query, doc)
		if score > 0 {
			scored = append(scored, models.ScoredRecipe{RecipeID: doc.recipeID, Score: score})
		}
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].RecipeID < scored[j].RecipeID
	})

	if topN > 0 && len(scored) > topN {
		scored = scored[:topN]
	}
	return scored, nil
}

// Rebuild recomputes the index from the current catalog regardless of TTL.
func (s *SimilarityIndex) Rebuild(ctx context.Context) error {
	recipes, err := s.recipes.All(ctx)
	if err != nil {
		return fmt.Errorf("failed to load recipes for similarity index: %w", err)
	}

	docs, position := buildIndex(recipes, s.config.Recommendation.Similarity.MinDocFreq)

	s.mu.Lock()
	s.docs = docs
	s.position = position
	s.builtAt = s.now()
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"recipes": len(recipes),
		"indexed": len(docs),
	}).Info("Similarity index rebuilt")
	return nil
}

func (s *SimilarityIndex) ensureFresh(ctx context.Context) error {
	s.mu.RLock()
	fresh := !s.builtAt.IsZero() && s.now().Sub(s.builtAt) < s.config.Recommendation.Similarity.IndexTTL
	s.mu.RUnlock()

	if fresh {
		return nil
	}
	return s.Rebuild(ctx)
}

// documentText flattens a recipe into the text the vectorizer sees: title,
// ingredient names, and instructions. Dietary tags stay out of the corpus so
// two recipes sharing only a tag never score as similar.
func documentText(recipe *models.Recipe) string {
	parts := make([]string, 0, 2+len(recipe.Ingredients))
	parts = append(parts, recipe.Title)
	for _, ingredient := range recipe.Ingredients {
		parts = append(parts, ingredient.Name)
	}
	parts = append(parts, recipe.Instructions)
	return strings.Join(parts, " ")
}

func buildIndex(recipes []models.Recipe, minDocFreq int) ([]indexedDoc, map[int64]int) {
	if minDocFreq < 1 {
		minDocFreq = 1
	}

	type tokenizedDoc struct {
		recipeID int64
		counts   map[string]int
	}

	tokenized := make([]tokenizedDoc, 0, len(recipes))
	docFreq := make(map[string]int)
	for i := range recipes {
		terms := tokenize(documentText(&recipes[i]))
		if len(terms) == 0 {
			continue
		}
		counts := make(map[string]int, len(terms))
		for _, term := range terms {
			counts[term]++
		}
		for term := range counts {
			docFreq[term]++
		}
		tokenized = append(tokenized, tokenizedDoc{recipeID: recipes[i].ID, counts: counts})
	}

	// Sorted vocabulary keeps term indices stable across rebuilds of the
	// same catalog.
	vocabulary := make([]string, 0, len(docFreq))
	for term, df := range docFreq {
		if df >= minDocFreq {
			vocabulary = append(vocabulary, term)
		}
	}
	sort.Strings(vocabulary)

	termIndex := make(map[string]int, len(vocabulary))
	for i, term := range vocabulary {
		termIndex[term] = i
	}

	totalDocs := float64(len(tokenized))
	idf := make([]float64, len(vocabulary))
	for i, term := range vocabulary {
		// Smoothed inverse document frequency, always positive.
		idf[i] = math.Log((1+totalDocs)/(1+float64(docFreq[term]))) + 1
	}

	docs := make([]indexedDoc, 0, len(tokenized))
	position := make(map[int64]int, len(tokenized))
	for _, td := range tokenized {
		doc := indexedDoc{recipeID: td.recipeID}
		for term := range td.counts {
			if idx, ok := termIndex[term]; ok {
				doc.terms = append(doc.terms, idx)
			}
		}
		if len(doc.terms) == 0 {
			continue
		}
		sort.Ints(doc.terms)

		doc.weights = make([]float64, len(doc.terms))
		for i, idx := range doc.terms {
			doc.weights[i] = float64(td.counts[vocabulary[idx]]) * idf[idx]
		}

		norm := floats.Norm(doc.weights, 2)
		if norm == 0 {
			continue
		}
		floats.Scale(1/norm, doc.weights)

		position[doc.recipeID] = len(docs)
		docs = append(docs, doc)
	}

	return docs, position
}

// sparseDot is the cosine similarity of two unit vectors stored sparsely.
func sparseDot(a, b indexedDoc) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(a.terms) && j < len(b.terms) {
		switch {
		case a.terms[i] == b.terms[j]:
			sum += a.weights[i] * b.weights[j]
			i++
			j++
		case a.terms[i] < b.terms[j]:
			i++
		default:
			j++
		}
	}
	return sum
}
