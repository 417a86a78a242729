package models

import (
	"time"

	"github.com/google/uuid"
)

// Interaction kinds recorded against recipes. Unrecognized kinds are
// tolerated by the scorer and weighted at the default.
const (
	InteractionView     = "view"
	InteractionFavorite = "favorite"
	InteractionCook     = "cook"
)

// RecipeInteraction is one entry in the append-only engagement log.
type RecipeInteraction struct {
	ID        int64     `json:"id" db:"interaction_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id" validate:"required"`
	RecipeID  int64     `json:"recipe_id" db:"recipe_id" validate:"required"`
	Kind      string    `json:"interaction_type" db:"interaction_type" validate:"required,oneof=view favorite cook"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
}
