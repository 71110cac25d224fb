package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"github.com/tuanvumaihuynh/inventory-keeper/internal/apperr"
	"github.com/tuanvumaihuynh/inventory-keeper/internal/identity"
	"github.com/tuanvumaihuynh/inventory-keeper/internal/model"
	"github.com/tuanvumaihuynh/inventory-keeper/internal/service"
)

const maxBodyBytes = 1 << 20 // 1 MB

const (
	itemCreatedMsg = "Inventory item created successfully"
	itemUpdatedMsg = "Inventory item updated successfully"
	itemDeletedMsg = "Inventory item deleted successfully"
)

type createInventoryItemRequest struct {
	Name     any    `json:"name"`
	Quantity any    `json:"quantity"`
	Price    any    `json:"price"`
	UID      string `json:"uid"`
}

type updateInventoryItemRequest struct {
	ID       string `json:"id"`
	Name     any    `json:"name"`
	Quantity any    `json:"quantity"`
	Price    any    `json:"price"`
	UID      string `json:"uid"`
}

type deleteInventoryItemRequest struct {
	ID  string `json:"id"`
	UID string `json:"uid"`
}

type createInventoryItemResponse struct {
	Message string    `json:"message"`
	ID      uuid.UUID `json:"id"`
}

type listInventoryItemsResponse struct {
	InventoryItems []model.InventoryItem `json:"inventoryItems"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type inventoryItemHandler struct {
	logger       *slog.Logger
	inventorySvc service.InventoryService
	verifier     identity.Verifier
}

func newInventoryItemHandler(
	logger *slog.Logger,
	inventorySvc service.InventoryService,
	verifier identity.Verifier,
) *inventoryItemHandler {
	return &inventoryItemHandler{
		logger:       logger,
		inventorySvc: inventorySvc,
		verifier:     verifier,
	}
}

func (h *inventoryItemHandler) CreateInventoryItem(r *http.Request) (any, error) {
	var req createInventoryItemRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}

	ctx, uid := h.identify(r, req.UID)
	item, err := h.inventorySvc.CreateInventoryItem(ctx, service.CreateInventoryItemParams{
		Name:     req.Name,
		Quantity: req.Quantity,
		Price:    req.Price,
		UID:      uid,
	})
	if err != nil {
		return nil, fmt.Errorf("inventory service create inventory item: %w", err)
	}

	return createInventoryItemResponse{
		Message: itemCreatedMsg,
		ID:      item.ID,
	}, nil
}

func (h *inventoryItemHandler) GetInventoryItems(r *http.Request) (any, error) {
	var params service.ListInventoryItemsParams
	query := r.URL.Query()

	if err := runtime.BindQueryParameter("form", true, false, "page", query, &params.Page); err != nil {
		return nil, apperr.ValidationErr.WrapParent(err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "pageSize", query, &params.PageSize); err != nil {
		return nil, apperr.ValidationErr.WrapParent(err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "filter", query, &params.Filter); err != nil {
		return nil, apperr.ValidationErr.WrapParent(err)
	}

	items, err := h.inventorySvc.ListInventoryItems(r.Context(), params)
	if err != nil {
		return nil, fmt.Errorf("inventory service list inventory items: %w", err)
	}
	if items == nil {
		items = []model.InventoryItem{}
	}

	return listInventoryItemsResponse{InventoryItems: items}, nil
}

func (h *inventoryItemHandler) UpdateInventoryItem(r *http.Request) (any, error) {
	var req updateInventoryItemRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}

	ctx, uid := h.identify(r, req.UID)
	if _, err := h.inventorySvc.UpdateInventoryItem(ctx, service.UpdateInventoryItemParams{
		ID:       req.ID,
		Name:     req.Name,
		Quantity: req.Quantity,
		Price:    req.Price,
		UID:      uid,
	}); err != nil {
		return nil, fmt.Errorf("inventory service update inventory item: %w", err)
	}

	return messageResponse{Message: itemUpdatedMsg}, nil
}

func (h *inventoryItemHandler) DeleteInventoryItem(r *http.Request) (any, error) {
	var req deleteInventoryItemRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}

	ctx, uid := h.identify(r, req.UID)
	if err := h.inventorySvc.DeleteInventoryItem(ctx, service.DeleteInventoryItemParams{
		ID:  req.ID,
		UID: uid,
	}); err != nil {
		return nil, fmt.Errorf("inventory service delete inventory item: %w", err)
	}

	return messageResponse{Message: itemDeletedMsg}, nil
}

// identify returns the verified caller identity, or "" when it cannot be
// established so the service answers 401. The returned context carries the
// identity for logging.
func (h *inventoryItemHandler) identify(r *http.Request, claimedUID string) (context.Context, string) {
	ctx := r.Context()

	uid, err := h.verifier.Identify(r, claimedUID)
	if err != nil {
		h.logger.WarnContext(ctx, "caller identity rejected", slog.Any("error", err))
		return ctx, ""
	}

	return identity.NewContext(ctx, uid), uid
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return apperr.MalformedRequestErr.WrapParent(err)
	}
	return nil
}
