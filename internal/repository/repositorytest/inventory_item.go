package repositorytest

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/inventory-keeper/internal/model"
	"github.com/tuanvumaihuynh/inventory-keeper/internal/repository"
	"github.com/tuanvumaihuynh/inventory-keeper/internal/storage/db"
)

type inventoryItemRepository struct {
	store *Store
	inTx  bool
}

var _ repository.InventoryItemRepository = (*inventoryItemRepository)(nil)

func (r *inventoryItemRepository) WithDB(db.DB) repository.InventoryItemRepository {
	return &inventoryItemRepository{store: r.store, inTx: true}
}

func (r *inventoryItemRepository) CreateInventoryItem(_ context.Context, item model.InventoryItem) error {
	defer r.store.lock(r.inTx)()

	if r.store.indexOf(item.ID) >= 0 {
		return fmt.Errorf("duplicate inventory item id %s", item.ID)
	}
	r.store.items = append(r.store.items, item)
	return nil
}

func (r *inventoryItemRepository) GetInventoryItemForUpdate(_ context.Context, id uuid.UUID) (model.InventoryItem, error) {
	defer r.store.lock(r.inTx)()

	i := r.store.indexOf(id)
	if i < 0 {
		return model.InventoryItem{}, repository.ErrInventoryItemNotFound
	}
	return r.store.items[i], nil
}

func (r *inventoryItemRepository) ListInventoryItems(_ context.Context, params repository.ListInventoryItemsParams) ([]model.InventoryItem, error) {
	defer r.store.lock(r.inTx)()

	if !r.inTx && r.store.listErr != nil {
		return nil, r.store.listErr
	}

	matched := make([]model.InventoryItem, 0, len(r.store.items))
	for _, item := range r.store.items {
		if params.Name != nil && item.Name != *params.Name {
			continue
		}
		matched = append(matched, item)
	}

	if params.Limit == nil {
		return matched, nil
	}

	start := min(params.Offset, int64(len(matched)))
	end := min(start+*params.Limit, int64(len(matched)))
	return matched[start:end], nil
}

func (r *inventoryItemRepository) UpdateInventoryItem(_ context.Context, params repository.UpdateInventoryItemParams) error {
	defer r.store.lock(r.inTx)()

	i := r.store.indexOf(params.ID)
	if i < 0 {
		return repository.ErrInventoryItemNotFound
	}
	r.store.items[i] = params.Patch.Apply(r.store.items[i], params.UpdatedAt)
	return nil
}

func (r *inventoryItemRepository) DeleteInventoryItem(_ context.Context, id uuid.UUID) error {
	defer r.store.lock(r.inTx)()

	i := r.store.indexOf(id)
	if i < 0 {
		return repository.ErrInventoryItemNotFound
	}
	r.store.items = append(r.store.items[:i:i], r.store.items[i+1:]...)
	return nil
}
