package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/inventory-keeper/internal/apperr"
	"github.com/tuanvumaihuynh/inventory-keeper/internal/event"
	"github.com/tuanvumaihuynh/inventory-keeper/internal/model"
	"github.com/tuanvumaihuynh/inventory-keeper/internal/repository"
	"github.com/tuanvumaihuynh/inventory-keeper/internal/storage/db"
	"github.com/tuanvumaihuynh/inventory-keeper/pkg/outbox"
	"github.com/tuanvumaihuynh/inventory-keeper/pkg/validator"
)

// CreateInventoryItemParams carries the decoded, still untyped, request
// fields. Rules run in field order and the first failure is reported.
type CreateInventoryItemParams struct {
	Name     any `json:"name" validate:"required,notblank"`
	Quantity any `json:"quantity" validate:"required,positive"`
	Price    any `json:"price" validate:"required,positive"`

	UID string `json:"-"`
}

// ListInventoryItemsParams pages only when both Page and PageSize are set.
type ListInventoryItemsParams struct {
	Page     *int32  `json:"page" validate:"omitempty,gte=0"`
	PageSize *int32  `json:"pageSize" validate:"omitempty,gte=1"`
	Filter   *string `json:"filter"`
}

// UpdateInventoryItemParams overwrites the non-nil fields only.
type UpdateInventoryItemParams struct {
	ID       string `json:"id" validate:"required"`
	Name     any    `json:"name" validate:"omitempty,notblank"`
	Quantity any    `json:"quantity" validate:"omitempty,positive"`
	Price    any    `json:"price" validate:"omitempty,positive"`

	UID string `json:"-"`
}

type DeleteInventoryItemParams struct {
	ID string `json:"id" validate:"required"`

	UID string `json:"-"`
}

type InventoryService interface {
	CreateInventoryItem(ctx context.Context, params CreateInventoryItemParams) (model.InventoryItem, error)
	ListInventoryItems(ctx context.Context, params ListInventoryItemsParams) ([]model.InventoryItem, error)
	UpdateInventoryItem(ctx context.Context, params UpdateInventoryItemParams) (model.InventoryItem, error)
	DeleteInventoryItem(ctx context.Context, params DeleteInventoryItemParams) error
}

type inventoryService struct {
	db            db.Transactor
	validator     validator.Validator
	itemRepo      repository.InventoryItemRepository
	outboxMsgRepo repository.OutboxMsgRepository
	now           func() time.Time
}

type Option func(*inventoryService)

// WithClock replaces the clock used for createdAt and updatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *inventoryService) {
		s.now = now
	}
}

func NewInventoryService(
	db db.Transactor,
	validator validator.Validator,
	itemRepo repository.InventoryItemRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
	opts ...Option,
) InventoryService {
	s := &inventoryService{
		db:            db,
		validator:     validator,
		itemRepo:      itemRepo,
		outboxMsgRepo: outboxMsgRepo,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *inventoryService) CreateInventoryItem(ctx context.Context, params CreateInventoryItemParams) (model.InventoryItem, error) {
	if err := s.validate(params); err != nil {
		return model.InventoryItem{}, err
	}

	if err := requireIdentity(params.UID); err != nil {
		return model.InventoryItem{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return model.InventoryItem{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	// validated above: name is a string, quantity and price are numbers
	name, _ := params.Name.(string)
	quantity, _ := validator.Float64(params.Quantity)
	price, _ := validator.Float64(params.Price)

	item := model.InventoryItem{
		ID:        id,
		Name:      name,
		Quantity:  quantity,
		Price:     price,
		CreatedBy: params.UID,
		CreatedAt: s.now().UTC(),
	}

	ev := event.InventoryItemEvent{
		ItemID:     item.ID.String(),
		Name:       &item.Name,
		Quantity:   &item.Quantity,
		Price:      &item.Price,
		Actor:      item.CreatedBy,
		OccurredAt: item.CreatedAt,
	}

	if err := s.db.WithTx(ctx, func(db db.DB) error {
		if err := s.itemRepo.
			WithDB(db).
			CreateInventoryItem(ctx, item); err != nil {
			return fmt.Errorf("inventory item repository create inventory item: %w", err)
		}

		if err := s.publish(ctx, db, event.TopicInventoryItemCreated, ev); err != nil {
			return err
		}

		return nil
	}); err != nil {
		return model.InventoryItem{}, fmt.Errorf("db with tx: %w", err)
	}

	return item, nil
}

func (s *inventoryService) ListInventoryItems(ctx context.Context, params ListInventoryItemsParams) ([]model.InventoryItem, error) {
	if err := s.validate(params); err != nil {
		return nil, err
	}

	var repoParams repository.ListInventoryItemsParams
	if params.Filter != nil && *params.Filter != "" {
		repoParams.Name = params.Filter
	}
	if params.Page != nil && params.PageSize != nil {
		limit := int64(*params.PageSize)
		repoParams.Limit = &limit
		repoParams.Offset = int64(*params.Page) * limit
	}

	items, err := s.itemRepo.ListInventoryItems(ctx, repoParams)
	if err != nil {
		return nil, fmt.Errorf("inventory item repository list inventory items: %w", err)
	}

	return items, nil
}

func (s *inventoryService) UpdateInventoryItem(ctx context.Context, params UpdateInventoryItemParams) (model.InventoryItem, error) {
	if err := requireIdentity(params.UID); err != nil {
		return model.InventoryItem{}, err
	}

	if err := s.validate(params); err != nil {
		return model.InventoryItem{}, err
	}

	id, err := uuid.Parse(params.ID)
	if err != nil {
		return model.InventoryItem{}, apperr.InventoryItemNotFoundErr.WrapParent(err)
	}

	var patch model.InventoryItemPatch
	if name, ok := params.Name.(string); ok {
		patch.Name = &name
	}
	if quantity, ok := validator.Float64(params.Quantity); ok {
		patch.Quantity = &quantity
	}
	if price, ok := validator.Float64(params.Price); ok {
		patch.Price = &price
	}

	var updated model.InventoryItem
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		itemRepo := s.itemRepo.WithDB(db)

		current, err := itemRepo.GetInventoryItemForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("inventory item repository get inventory item: %w", notFound(err))
		}

		now := s.now().UTC()
		if err := itemRepo.UpdateInventoryItem(ctx, repository.UpdateInventoryItemParams{
			ID:        id,
			Patch:     patch,
			UpdatedAt: now,
		}); err != nil {
			return fmt.Errorf("inventory item repository update inventory item: %w", notFound(err))
		}
		updated = patch.Apply(current, now)

		return s.publish(ctx, db, event.TopicInventoryItemUpdated, event.InventoryItemEvent{
			ItemID:     id.String(),
			Name:       patch.Name,
			Quantity:   patch.Quantity,
			Price:      patch.Price,
			Actor:      params.UID,
			OccurredAt: now,
		})
	}); err != nil {
		return model.InventoryItem{}, fmt.Errorf("db with tx: %w", err)
	}

	return updated, nil
}

func (s *inventoryService) DeleteInventoryItem(ctx context.Context, params DeleteInventoryItemParams) error {
	if err := requireIdentity(params.UID); err != nil {
		return err
	}

	if err := s.validate(params); err != nil {
		return err
	}

	id, err := uuid.Parse(params.ID)
	if err != nil {
		return apperr.InventoryItemNotFoundErr.WrapParent(err)
	}

	if err := s.db.WithTx(ctx, func(db db.DB) error {
		itemRepo := s.itemRepo.WithDB(db)

		if _, err := itemRepo.GetInventoryItemForUpdate(ctx, id); err != nil {
			return fmt.Errorf("inventory item repository get inventory item: %w", notFound(err))
		}

		if err := itemRepo.DeleteInventoryItem(ctx, id); err != nil {
			return fmt.Errorf("inventory item repository delete inventory item: %w", notFound(err))
		}

		return s.publish(ctx, db, event.TopicInventoryItemDeleted, event.InventoryItemEvent{
			ItemID:     id.String(),
			Actor:      params.UID,
			OccurredAt: s.now().UTC(),
		})
	}); err != nil {
		return fmt.Errorf("db with tx: %w", err)
	}

	return nil
}

// publish records ev in the outbox within the caller's transaction.
func (s *inventoryService) publish(ctx context.Context, db db.DB, topic string, ev event.InventoryItemEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	partitionKey := ev.ItemID
	if err := s.outboxMsgRepo.
		WithDB(db).
		CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{
			Topic:        topic,
			Headers:      outbox.BuildHeaders(ctx),
			Payload:      payload,
			PartitionKey: &partitionKey,
		}); err != nil {
		return fmt.Errorf("outbox msg repository create outbox msg: %w", err)
	}

	return nil
}

// validate reports the first violated rule only.
func (s *inventoryService) validate(params any) error {
	err := s.validator.Validate(params)
	if err == nil {
		return nil
	}

	var fieldErrs govalidator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return fieldErrs[:1]
	}

	return fmt.Errorf("validate %T: %w", params, err)
}

func requireIdentity(uid string) error {
	if strings.TrimSpace(uid) == "" {
		return apperr.UnauthorizedErr
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, repository.ErrInventoryItemNotFound) {
		return apperr.InventoryItemNotFoundErr.WrapParent(err)
	}
	return err
}
