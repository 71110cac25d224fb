package model_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/tuanvumaihuynh/inventory-keeper/internal/model"
	"github.com/tuanvumaihuynh/inventory-keeper/pkg/ptr"
)

func TestInventoryItemPatch_Apply(t *testing.T) {
	createdAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	updatedAt := createdAt.Add(time.Hour)
	item := model.InventoryItem{
		ID:        uuid.New(),
		Name:      "Widget",
		Quantity:  3,
		Price:     9.5,
		CreatedBy: "alice",
		CreatedAt: createdAt,
	}

	got := model.InventoryItemPatch{Quantity: ptr.New(7.0)}.Apply(item, updatedAt)

	assert.Equal(t, "Widget", got.Name)
	assert.Equal(t, 7.0, got.Quantity)
	assert.Equal(t, 9.5, got.Price)
	assert.Equal(t, "alice", got.CreatedBy)
	assert.Equal(t, createdAt, got.CreatedAt)
	assert.Equal(t, &updatedAt, got.UpdatedAt)
	assert.Nil(t, item.UpdatedAt)
}
