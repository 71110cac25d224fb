package model

import (
	"time"

	"github.com/google/uuid"
)

// InventoryItem is one stocked article.
type InventoryItem struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Quantity  float64    `json:"quantity"`
	Price     float64    `json:"price"`
	CreatedBy string     `json:"createdBy"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// InventoryItemPatch holds the fields an update overwrites. Nil fields are
// left untouched.
type InventoryItemPatch struct {
	Name     *string
	Quantity *float64
	Price    *float64
}

// Apply returns item with the patch fields overwritten and UpdatedAt set.
func (p InventoryItemPatch) Apply(item InventoryItem, updatedAt time.Time) InventoryItem {
	if p.Name != nil {
		item.Name = *p.Name
	}
	if p.Quantity != nil {
		item.Quantity = *p.Quantity
	}
	if p.Price != nil {
		item.Price = *p.Price
	}
	item.UpdatedAt = &updatedAt
	return item
}
