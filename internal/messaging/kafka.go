// Package messaging publishes recipe interaction events to Kafka so
// downstream analytics consumers see the engagement stream without touching
// the serving database.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/cuisinecraft/engine/internal/config"
	"github.com/cuisinecraft/engine/internal/validation"
	"github.com/cuisinecraft/engine/pkg/models"
)

type InteractionEvent struct {
	Interaction models.RecipeInteraction `json:"interaction"`
	PublishedAt time.Time                `json:"published_at"`
}

type EventPublisher struct {
	writer    *kafka.Writer
	validator *validation.SchemaValidator
	logger    *logrus.Logger
}

func NewEventPublisher(cfg *config.Config, logger *logrus.Logger) (*EventPublisher, error) {
	validator, err := validation.NewSchemaValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to build event validator: %w", err)
	}

	return &EventPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Kafka.Brokers...),
			Topic:        cfg.Kafka.Topics.InteractionEvents,
			Balancer:     &kafka.Hash{}, // Key by user id so a user's events stay ordered
			RequiredAcks: kafka.RequireOne,
			Async:        false,
			BatchTimeout: 10 * time.Millisecond,
			BatchSize:    100,
		},
		validator: validator,
		logger:    logger,
	}, nil
}

// PublishInteraction emits one interaction event. Delivery is best-effort
// from the caller's perspective; the interaction is already persisted.
func (p *EventPublisher) PublishInteraction(ctx context.Context, interaction *models.RecipeInteraction) error {
	// Enforce the topic contract on the producer side so consumers never
	// see a malformed event.
	if result := p.validator.ValidateInteraction(interaction); !result.Valid {
		return fmt.Errorf("interaction event failed contract validation: %+v", result.Errors)
	}

	event := InteractionEvent{
		Interaction: *interaction,
		PublishedAt: time.Now(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal interaction event: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(interaction.UserID.String()),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "interaction_type", Value: []byte(interaction.Kind)},
			{Key: "timestamp", Value: []byte(event.PublishedAt.Format(time.RFC3339))},
		},
	}

	writeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(writeCtx, message); err != nil {
		return fmt.Errorf("failed to publish interaction event: %w", err)
	}

	p.logger.WithFields(logrus.Fields{
		"user_id":   interaction.UserID,
		"recipe_id": interaction.RecipeID,
		"type":      interaction.Kind,
	}).Debug("Interaction event published")

	return nil
}

func (p *EventPublisher) Close() error {
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka writer: %w", err)
	}
	return nil
}
