package apperr

import "github.com/tuanvumaihuynh/inventory-keeper/pkg/zerror"

const (
	ValidationErrorCode       = "validationError"
	MalformedRequestErrorCode = "validationError"
	UnauthorizedErrorCode     = "UNAUTHORIZED"
	InventoryItemNotFoundCode = "INVENTORY_ITEM_NOT_FOUND"
	TooManyRequestsErrorCode  = "TOO_MANY_REQUESTS"
	UnavailableErrorCode      = "SERVICE_UNAVAILABLE"
)

var (
	ValidationErr            = zerror.NewValidationFailed(ValidationErrorCode, "validation error")
	MalformedRequestErr      = zerror.NewBadRequest(MalformedRequestErrorCode, "request body must be a JSON object")
	UnauthorizedErr          = zerror.NewUnauthorized(UnauthorizedErrorCode, "Unauthorized: Authentication required")
	InventoryItemNotFoundErr = zerror.NewNotFound(InventoryItemNotFoundCode, "Inventory item not found")
	TooManyRequestsErr       = zerror.NewTooManyRequests(TooManyRequestsErrorCode, "too many requests")
	UnavailableErr           = zerror.NewZError(nil, zerror.StatusServiceUnavailable, UnavailableErrorCode, "database is unavailable")
)
