package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuisinecraft/engine/pkg/models"
)

func TestInteractionStore_Record(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)
	store := NewInteractionStore(mock, logger)

	userID := uuid.New()
	recordedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO recipe_interactions").
		WithArgs(userID, int64(9), models.InteractionCook).
		WillReturnRows(pgxmock.NewRows([]string{"interaction_id", "timestamp"}).
			AddRow(int64(42), recordedAt))

	interaction, err := store.Record(context.Background(), userID, 9, models.InteractionCook)
	require.NoError(t, err)

	assert.Equal(t, int64(42), interaction.ID)
	assert.Equal(t, models.InteractionCook, interaction.Kind)
	assert.Equal(t, recordedAt, interaction.Timestamp)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPreferenceStore_Replace(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)
	store := NewPreferenceStore(mock, logger)

	userID := uuid.New()

	mock.ExpectExec("DELETE FROM dietary_preferences").
		WithArgs(userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec("INSERT INTO dietary_preferences").
		WithArgs(userID, "vegetarian").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	// The bogus restriction is dropped without touching the database.
	err = store.Replace(context.Background(), userID, []string{"vegetarian", "keto"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
