package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tuanvumaihuynh/inventory-keeper/internal/storage/mq"
)

// Topics lists every inventory topic the service consumes.
var Topics = []string{
	TopicInventoryItemCreated,
	TopicInventoryItemUpdated,
	TopicInventoryItemDeleted,
}

// Service is the event service. It keeps an audit trail of inventory
// changes in the logs.
type Service struct {
	logger     *slog.Logger
	mqConsumer mq.Consumer
}

// New creates a new event service.
func New(
	logger *slog.Logger,
	mqConsumer mq.Consumer,
) *Service {
	return &Service{
		logger:     logger.With(slog.String("service", "event")),
		mqConsumer: mqConsumer,
	}
}

type CleanupFunc func()

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	for _, topic := range Topics {
		if err := s.mqConsumer.RegisterHandler(topic, s.handleMessage); err != nil {
			return nil, fmt.Errorf("register %s event handler: %w", topic, err)
		}
	}

	mqCleanup, err := s.mqConsumer.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("run mq consumer: %w", err)
	}

	cleanup := func() {
		mqCleanup()
	}

	return cleanup, nil
}

func (s *Service) handleMessage(ctx context.Context, topic string, payload []byte) error {
	var ev InventoryItemEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return fmt.Errorf("unmarshal inventory item event: %w", err)
	}

	if err := s.handleInventoryItemEvent(ctx, topic, ev); err != nil {
		return fmt.Errorf("handle inventory item event: %w", err)
	}

	return nil
}
