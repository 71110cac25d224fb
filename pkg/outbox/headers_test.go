package outbox_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tuanvumaihuynh/inventory-keeper/pkg/correlationid"
	"github.com/tuanvumaihuynh/inventory-keeper/pkg/outbox"
)

func TestHeadersRoundTrip(t *testing.T) {
	ctx := correlationid.NewContext(context.Background(), "corr-1")

	headers := outbox.BuildHeaders(ctx)
	assert.Equal(t, "corr-1", headers[correlationid.Header])

	got, ok := correlationid.FromContext(outbox.ExtractContextFromHeaders(context.Background(), headers))
	assert.True(t, ok)
	assert.Equal(t, "corr-1", got)
}

func TestBuildHeaders_WithoutCorrelationID(t *testing.T) {
	headers := outbox.BuildHeaders(context.Background())
	_, ok := headers[correlationid.Header]
	assert.False(t, ok)
}
