package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cuisinecraft/engine/pkg/models"
)

type PreferenceStore struct {
	db     Querier
	logger *logrus.Logger
}

func NewPreferenceStore(db Querier, logger *logrus.Logger) *PreferenceStore {
	return &PreferenceStore{db: db, logger: logger}
}

// Restrictions returns the dietary restriction types a user has selected,
// in a stable order. An anonymous user has none.
func (s *PreferenceStore) Restrictions(ctx context.Context, userID uuid.UUID) ([]string, error) {
	if userID == uuid.Nil {
		return nil, nil
	}

	query := `
		SELECT restriction_type
		FROM dietary_preferences
		WHERE user_id = $1
		ORDER BY restriction_type`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query dietary preferences: %w", err)
	}
	defer rows.Close()

	var restrictions []string
	for rows.Next() {
		var restriction string
		if err := rows.Scan(&restriction); err != nil {
			return nil, fmt.Errorf("failed to scan dietary preference row: %w", err)
		}
		restrictions = append(restrictions, restriction)
	}
	return restrictions, rows.Err()
}

// Replace swaps a user's full preference set for the supplied one. Unknown
// restriction types are dropped rather than rejected.
func (s *PreferenceStore) Replace(ctx context.Context, userID uuid.UUID, restrictions []string) error {
	if _, err := s.db.Exec(ctx,
		`DELETE FROM dietary_preferences WHERE user_id = $1`, userID,
	); err != nil {
		return fmt.Errorf("failed to clear dietary preferences: %w", err)
	}

	for _, restriction := range restrictions {
		if !validRestriction(restriction) {
			s.logger.WithField("restriction", restriction).Warn("Ignoring unknown dietary restriction")
			continue
		}
		if _, err := s.db.Exec(ctx,
			`INSERT INTO dietary_preferences (user_id, restriction_type) VALUES ($1, $2)
			 ON CONFLICT (user_id, restriction_type) DO NOTHING`,
			userID, restriction,
		); err != nil {
			return fmt.Errorf("failed to store dietary preference %q: %w", restriction, err)
		}
	}

	return nil
}

func validRestriction(restriction string) bool {
	for _, choice := range models.DietaryChoices {
		if choice.ID == restriction {
			return true
		}
	}
	return false
}
