package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/inventory-keeper/internal/apperr"
	"github.com/tuanvumaihuynh/inventory-keeper/internal/event"
	"github.com/tuanvumaihuynh/inventory-keeper/internal/model"
	"github.com/tuanvumaihuynh/inventory-keeper/internal/repository/repositorytest"
	"github.com/tuanvumaihuynh/inventory-keeper/internal/service"
	"github.com/tuanvumaihuynh/inventory-keeper/pkg/ptr"
	"github.com/tuanvumaihuynh/inventory-keeper/pkg/validator"
)

var (
	createdAt = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	updatedAt = createdAt.Add(time.Hour)
)

type clock struct {
	times []time.Time
}

func (c *clock) now() time.Time {
	t := c.times[0]
	if len(c.times) > 1 {
		c.times = c.times[1:]
	}
	return t
}

func newService(t *testing.T, times ...time.Time) (service.InventoryService, *repositorytest.Store) {
	t.Helper()

	v, err := validator.NewDefaultValidator()
	require.NoError(t, err)

	if len(times) == 0 {
		times = []time.Time{createdAt}
	}
	c := &clock{times: times}

	store := repositorytest.NewStore()
	svc := service.NewInventoryService(
		store,
		v,
		store.InventoryItemRepository(),
		store.OutboxMsgRepository(),
		service.WithClock(c.now),
	)
	return svc, store
}

func firstFieldError(t *testing.T, err error) govalidator.FieldError {
	t.Helper()

	var fieldErrs govalidator.ValidationErrors
	require.True(t, errors.As(err, &fieldErrs), "expected validation errors, got %v", err)
	require.Len(t, fieldErrs, 1)
	return fieldErrs[0]
}

func TestCreateInventoryItem_Validation(t *testing.T) {
	tests := []struct {
		name      string
		params    service.CreateInventoryItemParams
		wantField string
	}{
		{name: "missing name", params: service.CreateInventoryItemParams{Quantity: 1.0, Price: 1.0}, wantField: "name"},
		{name: "empty name", params: service.CreateInventoryItemParams{Name: "", Quantity: 1.0, Price: 1.0}, wantField: "name"},
		{name: "whitespace name", params: service.CreateInventoryItemParams{Name: " \t ", Quantity: 1.0, Price: 1.0}, wantField: "name"},
		{name: "non string name", params: service.CreateInventoryItemParams{Name: 42.0, Quantity: 1.0, Price: 1.0}, wantField: "name"},
		{name: "missing quantity", params: service.CreateInventoryItemParams{Name: "Widget", Price: 1.0}, wantField: "quantity"},
		{name: "zero quantity", params: service.CreateInventoryItemParams{Name: "Widget", Quantity: 0.0, Price: 1.0}, wantField: "quantity"},
		{name: "negative quantity", params: service.CreateInventoryItemParams{Name: "Widget", Quantity: -3.0, Price: 1.0}, wantField: "quantity"},
		{name: "string quantity", params: service.CreateInventoryItemParams{Name: "Widget", Quantity: "5", Price: 1.0}, wantField: "quantity"},
		{name: "missing price", params: service.CreateInventoryItemParams{Name: "Widget", Quantity: 1.0}, wantField: "price"},
		{name: "zero price", params: service.CreateInventoryItemParams{Name: "Widget", Quantity: 1.0, Price: 0.0}, wantField: "price"},
		{name: "bool price", params: service.CreateInventoryItemParams{Name: "Widget", Quantity: 1.0, Price: true}, wantField: "price"},
		{name: "first failure wins", params: service.CreateInventoryItemParams{Name: "", Quantity: -1.0, Price: "x"}, wantField: "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newService(t)
			tt.params.UID = "alice"

			_, err := svc.CreateInventoryItem(context.Background(), tt.params)

			assert.Equal(t, tt.wantField, firstFieldError(t, err).Field())
			assert.Empty(t, store.Items())
			assert.Empty(t, store.OutboxMsgs())
		})
	}
}

func TestCreateInventoryItem_ValidationBeforeIdentity(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.CreateInventoryItem(context.Background(), service.CreateInventoryItemParams{Name: "", Quantity: 1.0, Price: 1.0})

	assert.Equal(t, "name", firstFieldError(t, err).Field())
}

func TestCreateInventoryItem_RequiresIdentity(t *testing.T) {
	for _, uid := range []string{"", "   "} {
		t.Run(fmt.Sprintf("uid %q", uid), func(t *testing.T) {
			svc, store := newService(t)

			_, err := svc.CreateInventoryItem(context.Background(), service.CreateInventoryItemParams{
				Name: "Widget", Quantity: 2.0, Price: 3.5, UID: uid,
			})

			assert.ErrorIs(t, err, apperr.UnauthorizedErr)
			assert.Empty(t, store.Items())
		})
	}
}

func TestCreateInventoryItem_Success(t *testing.T) {
	svc, store := newService(t)

	item, err := svc.CreateInventoryItem(context.Background(), service.CreateInventoryItemParams{
		Name: "Widget", Quantity: 2.0, Price: 3.5, UID: "alice",
	})
	require.NoError(t, err)

	assert.Equal(t, uuid.Version(7), item.ID.Version())
	assert.Equal(t, "Widget", item.Name)
	assert.Equal(t, 2.0, item.Quantity)
	assert.Equal(t, 3.5, item.Price)
	assert.Equal(t, "alice", item.CreatedBy)
	assert.Equal(t, createdAt, item.CreatedAt)
	assert.Nil(t, item.UpdatedAt)

	assert.Equal(t, []model.InventoryItem{item}, store.Items())

	msgs := store.OutboxMsgs()
	require.Len(t, msgs, 1)
	assert.Equal(t, event.TopicInventoryItemCreated, msgs[0].Params.Topic)
	require.NotNil(t, msgs[0].Params.PartitionKey)
	assert.Equal(t, item.ID.String(), *msgs[0].Params.PartitionKey)

	var ev event.InventoryItemEvent
	require.NoError(t, json.Unmarshal(msgs[0].Params.Payload, &ev))
	assert.Equal(t, item.ID.String(), ev.ItemID)
	assert.Equal(t, "alice", ev.Actor)
	assert.Equal(t, ptr.New("Widget"), ev.Name)
}

func TestCreateInventoryItem_StoreFailure(t *testing.T) {
	svc, store := newService(t)
	storeErr := errors.New("connection refused")
	store.FailNextTx(storeErr)

	_, err := svc.CreateInventoryItem(context.Background(), service.CreateInventoryItemParams{
		Name: "Widget", Quantity: 2.0, Price: 3.5, UID: "alice",
	})

	assert.ErrorIs(t, err, storeErr)
	assert.Empty(t, store.Items())
}

func seed(t *testing.T, svc service.InventoryService, names ...string) []model.InventoryItem {
	t.Helper()

	items := make([]model.InventoryItem, 0, len(names))
	for _, name := range names {
		item, err := svc.CreateInventoryItem(context.Background(), service.CreateInventoryItemParams{
			Name: name, Quantity: 1.0, Price: 1.0, UID: "seeder",
		})
		require.NoError(t, err)
		items = append(items, item)
	}
	return items
}

func names(items []model.InventoryItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Name)
	}
	return out
}

func TestListInventoryItems(t *testing.T) {
	svc, _ := newService(t)

	var all []string
	for i := range 25 {
		all = append(all, fmt.Sprintf("item-%02d", i))
	}
	all = append(all, "Widget", "widget", "Widget")
	seed(t, svc, all...)

	t.Run("Should return every item without parameters", func(t *testing.T) {
		items, err := svc.ListInventoryItems(context.Background(), service.ListInventoryItemsParams{})
		require.NoError(t, err)
		assert.Equal(t, all, names(items))
		for _, item := range items {
			assert.NotEqual(t, uuid.Nil, item.ID)
		}
	})

	t.Run("Should filter by exact name", func(t *testing.T) {
		items, err := svc.ListInventoryItems(context.Background(), service.ListInventoryItemsParams{
			Filter: ptr.New("Widget"),
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"Widget", "Widget"}, names(items))
	})

	t.Run("Should ignore an empty filter", func(t *testing.T) {
		items, err := svc.ListInventoryItems(context.Background(), service.ListInventoryItemsParams{
			Filter: ptr.New(""),
		})
		require.NoError(t, err)
		assert.Len(t, items, len(all))
	})

	t.Run("Should return the second page", func(t *testing.T) {
		items, err := svc.ListInventoryItems(context.Background(), service.ListInventoryItemsParams{
			Page: ptr.New(int32(1)), PageSize: ptr.New(int32(10)),
		})
		require.NoError(t, err)
		assert.Equal(t, all[10:20], names(items))
	})

	t.Run("Should return an empty page past the end", func(t *testing.T) {
		items, err := svc.ListInventoryItems(context.Background(), service.ListInventoryItemsParams{
			Page: ptr.New(int32(100)), PageSize: ptr.New(int32(10)),
		})
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("Should ignore page without page size", func(t *testing.T) {
		items, err := svc.ListInventoryItems(context.Background(), service.ListInventoryItemsParams{
			Page: ptr.New(int32(2)),
		})
		require.NoError(t, err)
		assert.Len(t, items, len(all))
	})

	t.Run("Should reject a zero page size", func(t *testing.T) {
		_, err := svc.ListInventoryItems(context.Background(), service.ListInventoryItemsParams{
			Page: ptr.New(int32(0)), PageSize: ptr.New(int32(0)),
		})
		assert.Equal(t, "pageSize", firstFieldError(t, err).Field())
	})

	t.Run("Should reject a negative page", func(t *testing.T) {
		_, err := svc.ListInventoryItems(context.Background(), service.ListInventoryItemsParams{
			Page: ptr.New(int32(-1)), PageSize: ptr.New(int32(10)),
		})
		assert.Equal(t, "page", firstFieldError(t, err).Field())
	})
}

func TestListInventoryItems_StoreFailure(t *testing.T) {
	svc, store := newService(t)
	storeErr := errors.New("timeout")
	store.FailListing(storeErr)

	_, err := svc.ListInventoryItems(context.Background(), service.ListInventoryItemsParams{})

	assert.ErrorIs(t, err, storeErr)
}

func TestUpdateInventoryItem(t *testing.T) {
	t.Run("Should overwrite only supplied fields", func(t *testing.T) {
		svc, store := newService(t, createdAt, updatedAt)
		item := seed(t, svc, "Widget")[0]

		updated, err := svc.UpdateInventoryItem(context.Background(), service.UpdateInventoryItemParams{
			ID: item.ID.String(), Quantity: 9.0, UID: "bob",
		})
		require.NoError(t, err)

		want := item
		want.Quantity = 9
		want.UpdatedAt = &updatedAt
		assert.Equal(t, want, updated)
		assert.Equal(t, []model.InventoryItem{want}, store.Items())

		msgs := store.OutboxMsgs()
		require.Len(t, msgs, 2)
		assert.Equal(t, event.TopicInventoryItemUpdated, msgs[1].Params.Topic)

		var ev event.InventoryItemEvent
		require.NoError(t, json.Unmarshal(msgs[1].Params.Payload, &ev))
		assert.Equal(t, "bob", ev.Actor)
		assert.Nil(t, ev.Name)
		assert.Equal(t, ptr.New(9.0), ev.Quantity)
	})

	t.Run("Should require identity before anything else", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.UpdateInventoryItem(context.Background(), service.UpdateInventoryItemParams{Name: ""})

		assert.ErrorIs(t, err, apperr.UnauthorizedErr)
	})

	t.Run("Should require an id", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.UpdateInventoryItem(context.Background(), service.UpdateInventoryItemParams{UID: "bob"})

		assert.Equal(t, "id", firstFieldError(t, err).Field())
	})

	t.Run("Should validate supplied fields", func(t *testing.T) {
		svc, store := newService(t)
		item := seed(t, svc, "Widget")[0]

		_, err := svc.UpdateInventoryItem(context.Background(), service.UpdateInventoryItemParams{
			ID: item.ID.String(), Name: "  ", UID: "bob",
		})
		assert.Equal(t, "name", firstFieldError(t, err).Field())

		_, err = svc.UpdateInventoryItem(context.Background(), service.UpdateInventoryItemParams{
			ID: item.ID.String(), Price: -2.0, UID: "bob",
		})
		assert.Equal(t, "price", firstFieldError(t, err).Field())

		assert.Equal(t, []model.InventoryItem{item}, store.Items())
	})

	t.Run("Should report missing items and leave the collection unchanged", func(t *testing.T) {
		svc, store := newService(t)
		item := seed(t, svc, "Widget")[0]

		for _, id := range []string{uuid.Must(uuid.NewV7()).String(), "not-a-uuid"} {
			_, err := svc.UpdateInventoryItem(context.Background(), service.UpdateInventoryItemParams{
				ID: id, Name: "Gadget", UID: "bob",
			})
			assert.ErrorIs(t, err, apperr.InventoryItemNotFoundErr)
		}

		assert.Equal(t, []model.InventoryItem{item}, store.Items())
		assert.Len(t, store.OutboxMsgs(), 1)
	})
}

func TestDeleteInventoryItem(t *testing.T) {
	t.Run("Should delete an existing item", func(t *testing.T) {
		svc, store := newService(t)
		items := seed(t, svc, "Widget", "Gadget")

		err := svc.DeleteInventoryItem(context.Background(), service.DeleteInventoryItemParams{
			ID: items[0].ID.String(), UID: "bob",
		})
		require.NoError(t, err)

		assert.Equal(t, []model.InventoryItem{items[1]}, store.Items())
		msgs := store.OutboxMsgs()
		require.Len(t, msgs, 3)
		assert.Equal(t, event.TopicInventoryItemDeleted, msgs[2].Params.Topic)

		err = svc.DeleteInventoryItem(context.Background(), service.DeleteInventoryItemParams{
			ID: items[0].ID.String(), UID: "bob",
		})
		assert.ErrorIs(t, err, apperr.InventoryItemNotFoundErr)

		_, err = svc.UpdateInventoryItem(context.Background(), service.UpdateInventoryItemParams{
			ID: items[0].ID.String(), Name: "Back", UID: "bob",
		})
		assert.ErrorIs(t, err, apperr.InventoryItemNotFoundErr)
	})

	t.Run("Should require identity", func(t *testing.T) {
		svc, store := newService(t)
		item := seed(t, svc, "Widget")[0]

		err := svc.DeleteInventoryItem(context.Background(), service.DeleteInventoryItemParams{ID: item.ID.String()})

		assert.ErrorIs(t, err, apperr.UnauthorizedErr)
		assert.Len(t, store.Items(), 1)
	})

	t.Run("Should leave the collection unchanged for unknown ids", func(t *testing.T) {
		svc, store := newService(t)
		item := seed(t, svc, "Widget")[0]

		err := svc.DeleteInventoryItem(context.Background(), service.DeleteInventoryItemParams{
			ID: uuid.Must(uuid.NewV7()).String(), UID: "bob",
		})

		assert.ErrorIs(t, err, apperr.InventoryItemNotFoundErr)
		assert.Equal(t, []model.InventoryItem{item}, store.Items())
	})
}
