package apierr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/inventory-keeper/internal/apperr"
	"github.com/tuanvumaihuynh/inventory-keeper/internal/http/apierr"
	"github.com/tuanvumaihuynh/inventory-keeper/pkg/validator"
	"github.com/tuanvumaihuynh/inventory-keeper/pkg/zerror"
)

func TestNew(t *testing.T) {
	t.Run("Should map wrapped catalog errors to their status", func(t *testing.T) {
		tests := []struct {
			err        error
			wantStatus int
			wantCode   string
		}{
			{apperr.UnauthorizedErr, http.StatusUnauthorized, apperr.UnauthorizedErrorCode},
			{apperr.InventoryItemNotFoundErr, http.StatusNotFound, apperr.InventoryItemNotFoundCode},
			{apperr.MalformedRequestErr, http.StatusBadRequest, apperr.MalformedRequestErrorCode},
			{apperr.TooManyRequestsErr, http.StatusTooManyRequests, apperr.TooManyRequestsErrorCode},
		}

		for _, tt := range tests {
			t.Run(tt.wantCode, func(t *testing.T) {
				res := apierr.New(fmt.Errorf("db with tx: %w", tt.err))
				assert.Equal(t, tt.wantStatus, res.StatusCode)
				assert.Equal(t, tt.wantCode, res.Code)
				assert.Nil(t, res.Details)
			})
		}
	})

	t.Run("Should report validation failures with field details", func(t *testing.T) {
		v, err := validator.NewDefaultValidator()
		require.NoError(t, err)

		vErr := v.Validate(struct {
			Quantity any `json:"quantity" validate:"required,positive"`
		}{Quantity: -1})
		require.Error(t, vErr)

		res := apierr.New(vErr)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.Equal(t, "validationError", res.Code)
		require.NotNil(t, res.Details)
		assert.Equal(t, []apierr.FieldError{{Field: "quantity", Message: "must be a positive number"}}, *res.Details)
	})

	t.Run("Should hide unknown errors", func(t *testing.T) {
		res := apierr.New(errors.New("connection refused"))
		assert.Equal(t, apierr.InternalServerErr, res)
	})

	t.Run("Should map timeouts to gateway timeout", func(t *testing.T) {
		res := apierr.New(zerror.NewZError(nil, zerror.StatusTimeout, "timeout", "timed out"))
		assert.Equal(t, http.StatusGatewayTimeout, res.StatusCode)
	})
}
