package correlationid_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tuanvumaihuynh/inventory-keeper/pkg/correlationid"
)

func TestContext(t *testing.T) {
	_, ok := correlationid.FromContext(context.Background())
	assert.False(t, ok)

	_, ok = correlationid.FromContext(correlationid.NewContext(context.Background(), ""))
	assert.False(t, ok)

	id, ok := correlationid.FromContext(correlationid.NewContext(context.Background(), "abc"))
	assert.True(t, ok)
	assert.Equal(t, "abc", id)
}
