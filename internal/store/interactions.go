package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cuisinecraft/engine/pkg/models"
)

type InteractionStore struct {
	db     Querier
	logger *logrus.Logger
}

func NewInteractionStore(db Querier, logger *logrus.Logger) *InteractionStore {
	return &InteractionStore{db: db, logger: logger}
}

// Record appends one interaction to the engagement log.
func (s *InteractionStore) Record(ctx context.Context, userID uuid.UUID, recipeID int64, kind string) (*models.RecipeInteraction, error) {
	interaction := &models.RecipeInteraction{
		UserID:   userID,
		RecipeID: recipeID,
		Kind:     kind,
	}

	err := s.db.QueryRow(ctx,
		`INSERT INTO recipe_interactions (user_id, recipe_id, interaction_type)
		 VALUES ($1, $2, $3)
		 RETURNING interaction_id, timestamp`,
		userID, recipeID, kind,
	).Scan(&interaction.ID, &interaction.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to record %s interaction: %w", kind, err)
	}

	return interaction, nil
}

// Since returns a user's interactions at or after the cutoff, newest first.
func (s *InteractionStore) Since(ctx context.Context, userID uuid.UUID, cutoff time.Time) ([]models.RecipeInteraction, error) {
	query := `
		SELECT interaction_id, user_id, recipe_id, interaction_type, timestamp
		FROM recipe_interactions
		WHERE user_id = $1 AND timestamp >= $2
		ORDER BY timestamp DESC, interaction_id DESC`

	rows, err := s.db.Query(ctx, query, userID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query interactions: %w", err)
	}
	defer rows.Close()

	var interactions []models.RecipeInteraction
	for rows.Next() {
		var interaction models.RecipeInteraction
		if err := rows.Scan(
			&interaction.ID, &interaction.UserID, &interaction.RecipeID,
			&interaction.Kind, &interaction.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan interaction row: %w", err)
		}
		interactions = append(interactions, interaction)
	}
	return interactions, rows.Err()
}
