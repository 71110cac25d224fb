package apicontract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apicontract "github.com/tuanvumaihuynh/inventory-keeper/api-contract"
)

func TestLoad(t *testing.T) {
	doc, err := apicontract.Load()
	require.NoError(t, err)

	for _, path := range []string{
		"/createInventoryItem",
		"/getInventoryItems",
		"/updateInventoryItem",
		"/deleteInventoryItem",
	} {
		assert.NotNil(t, doc.Paths.Find(path), path)
	}
	assert.NotEmpty(t, apicontract.GetSpecBytes())
}
