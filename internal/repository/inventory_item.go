package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tuanvumaihuynh/inventory-keeper/internal/model"
	"github.com/tuanvumaihuynh/inventory-keeper/internal/storage/db"
)

// ErrInventoryItemNotFound is returned when no item has the requested id.
var ErrInventoryItemNotFound = errors.New("inventory item not found")

type ListInventoryItemsParams struct {
	// Name restricts the result to items whose name equals it exactly.
	Name *string
	// Offset and Limit are applied only when Limit is set.
	Offset int64
	Limit  *int64
}

type UpdateInventoryItemParams struct {
	ID        uuid.UUID
	Patch     model.InventoryItemPatch
	UpdatedAt time.Time
}

type InventoryItemRepository interface {
	WithDB(db db.DB) InventoryItemRepository
	CreateInventoryItem(ctx context.Context, item model.InventoryItem) error
	// GetInventoryItemForUpdate reads an item and locks it until the
	// surrounding transaction ends.
	GetInventoryItemForUpdate(ctx context.Context, id uuid.UUID) (model.InventoryItem, error)
	ListInventoryItems(ctx context.Context, params ListInventoryItemsParams) ([]model.InventoryItem, error)
	UpdateInventoryItem(ctx context.Context, params UpdateInventoryItemParams) error
	DeleteInventoryItem(ctx context.Context, id uuid.UUID) error
}

type inventoryItemRepository struct {
	db db.DB
}

func NewInventoryItemRepository(db db.DB) InventoryItemRepository {
	return &inventoryItemRepository{
		db: db,
	}
}

func (r inventoryItemRepository) WithDB(db db.DB) InventoryItemRepository {
	return &inventoryItemRepository{
		db: db,
	}
}

type inventoryItemRow struct {
	ID        uuid.UUID      `db:"id"`
	Name      string         `db:"name"`
	Quantity  float64        `db:"quantity"`
	Price     pgtype.Numeric `db:"price"`
	CreatedBy string         `db:"created_by"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt *time.Time     `db:"updated_at"`
}

const inventoryItemColumns = `id, name, quantity, price, created_by, created_at, updated_at`

func (r inventoryItemRepository) CreateInventoryItem(ctx context.Context, item model.InventoryItem) error {
	price, err := toNumeric(item.Price)
	if err != nil {
		return fmt.Errorf("scan price: %w", err)
	}

	if _, err := r.db.Exec(ctx, `
		INSERT INTO inventory_items (id, name, quantity, price, created_by, created_at, updated_at)
		VALUES (@id, @name, @quantity, @price, @created_by, @created_at, @updated_at)
	`, pgx.NamedArgs{
		"id":         item.ID,
		"name":       item.Name,
		"quantity":   item.Quantity,
		"price":      price,
		"created_by": item.CreatedBy,
		"created_at": item.CreatedAt,
		"updated_at": item.UpdatedAt,
	}); err != nil {
		return fmt.Errorf("insert inventory item: %w", err)
	}

	return nil
}

func (r inventoryItemRepository) GetInventoryItemForUpdate(ctx context.Context, id uuid.UUID) (model.InventoryItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+inventoryItemColumns+`
		FROM inventory_items
		WHERE id = @id
		FOR UPDATE
	`, pgx.NamedArgs{"id": id})
	if err != nil {
		return model.InventoryItem{}, fmt.Errorf("query inventory item: %w", err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[inventoryItemRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.InventoryItem{}, ErrInventoryItemNotFound
		}
		return model.InventoryItem{}, fmt.Errorf("collect inventory item: %w", err)
	}

	return rowToModelInventoryItem(row)
}

func (r inventoryItemRepository) ListInventoryItems(ctx context.Context, params ListInventoryItemsParams) ([]model.InventoryItem, error) {
	var (
		sb   strings.Builder
		args = pgx.NamedArgs{}
	)

	sb.WriteString("SELECT " + inventoryItemColumns + " FROM inventory_items")
	if params.Name != nil {
		sb.WriteString(" WHERE name = @name")
		args["name"] = *params.Name
	}
	sb.WriteString(" ORDER BY created_at, id")
	if params.Limit != nil {
		sb.WriteString(" LIMIT @limit OFFSET @offset")
		args["limit"] = *params.Limit
		args["offset"] = params.Offset
	}

	rows, err := r.db.Query(ctx, sb.String(), args)
	if err != nil {
		return nil, fmt.Errorf("query inventory items: %w", err)
	}

	itemRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[inventoryItemRow])
	if err != nil {
		return nil, fmt.Errorf("collect inventory items: %w", err)
	}

	items := make([]model.InventoryItem, 0, len(itemRows))
	for _, row := range itemRows {
		item, err := rowToModelInventoryItem(row)
		if err != nil {
			return nil, fmt.Errorf("convert row %s: %w", row.ID, err)
		}
		items = append(items, item)
	}

	return items, nil
}

func (r inventoryItemRepository) UpdateInventoryItem(ctx context.Context, params UpdateInventoryItemParams) error {
	var price *pgtype.Numeric
	if params.Patch.Price != nil {
		n, err := toNumeric(*params.Patch.Price)
		if err != nil {
			return fmt.Errorf("scan price: %w", err)
		}
		price = &n
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE inventory_items
		SET
			name       = COALESCE(@name, name),
			quantity   = COALESCE(@quantity, quantity),
			price      = COALESCE(@price, price),
			updated_at = @updated_at
		WHERE id = @id
	`, pgx.NamedArgs{
		"id":         params.ID,
		"name":       params.Patch.Name,
		"quantity":   params.Patch.Quantity,
		"price":      price,
		"updated_at": params.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("update inventory item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrInventoryItemNotFound
	}

	return nil
}

func (r inventoryItemRepository) DeleteInventoryItem(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM inventory_items WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("delete inventory item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrInventoryItemNotFound
	}

	return nil
}

func toNumeric(f float64) (pgtype.Numeric, error) {
	var n pgtype.Numeric
	if err := n.Scan(strconv.FormatFloat(f, 'f', -1, 64)); err != nil {
		return pgtype.Numeric{}, err
	}
	return n, nil
}

func rowToModelInventoryItem(row inventoryItemRow) (model.InventoryItem, error) {
	price, err := row.Price.Float64Value()
	if err != nil {
		return model.InventoryItem{}, fmt.Errorf("convert price to float64: %w", err)
	}

	return model.InventoryItem{
		ID:        row.ID,
		Name:      row.Name,
		Quantity:  row.Quantity,
		Price:     price.Float64,
		CreatedBy: row.CreatedBy,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}
