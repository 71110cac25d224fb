package event

import (
	"context"
	"log/slog"
	"time"
)

const (
	TopicInventoryItemCreated = "inventory.item.created"
	TopicInventoryItemUpdated = "inventory.item.updated"
	TopicInventoryItemDeleted = "inventory.item.deleted"
)

// InventoryItemEvent describes one change to an inventory item. Only the
// fields written by the change are set.
type InventoryItemEvent struct {
	ItemID     string    `json:"itemId"`
	Name       *string   `json:"name,omitempty"`
	Quantity   *float64  `json:"quantity,omitempty"`
	Price      *float64  `json:"price,omitempty"`
	Actor      string    `json:"actor"`
	OccurredAt time.Time `json:"occurredAt"`
}

func (s *Service) handleInventoryItemEvent(ctx context.Context, topic string, ev InventoryItemEvent) error {
	attrs := []any{
		slog.String("topic", topic),
		slog.String("item_id", ev.ItemID),
		slog.String("actor", ev.Actor),
		slog.Time("occurred_at", ev.OccurredAt),
	}
	if ev.Name != nil {
		attrs = append(attrs, slog.String("name", *ev.Name))
	}
	if ev.Quantity != nil {
		attrs = append(attrs, slog.Float64("quantity", *ev.Quantity))
	}
	if ev.Price != nil {
		attrs = append(attrs, slog.Float64("price", *ev.Price))
	}

	s.logger.InfoContext(ctx, "inventory item changed", attrs...)
	return nil
}
