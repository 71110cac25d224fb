package relay

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/inventory-keeper/internal/config"
	"github.com/tuanvumaihuynh/inventory-keeper/internal/repository"
	"github.com/tuanvumaihuynh/inventory-keeper/internal/repository/repositorytest"
	"github.com/tuanvumaihuynh/inventory-keeper/internal/storage/mq"
	"github.com/tuanvumaihuynh/inventory-keeper/pkg/ptr"
)

type fakeProducer struct {
	mu       sync.Mutex
	produced []mq.ProduceMsg
	failOn   map[string]error
}

func (p *fakeProducer) Produce(_ context.Context, msg mq.ProduceMsg) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err, ok := p.failOn[msg.Topic]; ok {
		return err
	}
	p.produced = append(p.produced, msg)
	return nil
}

func (p *fakeProducer) Produced() []mq.ProduceMsg {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]mq.ProduceMsg(nil), p.produced...)
}

func seedOutbox(t *testing.T, store *repositorytest.Store, topics ...string) {
	t.Helper()
	repo := store.OutboxMsgRepository()
	for _, topic := range topics {
		require.NoError(t, repo.CreateOutboxMsg(t.Context(), repository.CreateOutboxMsgParams{
			Topic:        topic,
			Headers:      map[string]string{"X-Correlation-ID": "corr"},
			Payload:      []byte(`{}`),
			PartitionKey: ptr.New("key-" + topic),
		}))
	}
}

func newTestService(store *repositorytest.Store, producer mq.Producer, batchSize uint32) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(
		config.Relay{BatchSize: batchSize, Interval: 10 * time.Millisecond},
		logger,
		store,
		store.OutboxMsgRepository(),
		producer,
	)
}

func TestRelayBatch_ProducesAndMarksMessages(t *testing.T) {
	store := repositorytest.NewStore()
	seedOutbox(t, store, "inventory.item.created", "inventory.item.updated")
	producer := &fakeProducer{}

	require.NoError(t, newTestService(store, producer, 10).relayBatch(t.Context()))

	produced := producer.Produced()
	require.Len(t, produced, 2)
	assert.ElementsMatch(t,
		[]string{"inventory.item.created", "inventory.item.updated"},
		[]string{produced[0].Topic, produced[1].Topic},
	)
	for _, msg := range produced {
		assert.Equal(t, "corr", msg.Headers["X-Correlation-ID"])
		require.NotNil(t, msg.PartitionKey)
		assert.Equal(t, "key-"+msg.Topic, *msg.PartitionKey)
	}

	for _, msg := range store.OutboxMsgs() {
		assert.True(t, msg.Processed)
		assert.Nil(t, msg.Error)
	}
}

func TestRelayBatch_RespectsBatchSize(t *testing.T) {
	store := repositorytest.NewStore()
	seedOutbox(t, store, "a", "b", "c")
	producer := &fakeProducer{}
	svc := newTestService(store, producer, 2)

	require.NoError(t, svc.relayBatch(t.Context()))
	assert.Len(t, producer.Produced(), 2)

	require.NoError(t, svc.relayBatch(t.Context()))
	assert.Len(t, producer.Produced(), 3)

	require.NoError(t, svc.relayBatch(t.Context()))
	assert.Len(t, producer.Produced(), 3)
}

func TestRelayBatch_RecordsProduceError(t *testing.T) {
	store := repositorytest.NewStore()
	seedOutbox(t, store, "ok", "broken")
	producer := &fakeProducer{failOn: map[string]error{"broken": errors.New("broker unavailable")}}

	require.NoError(t, newTestService(store, producer, 10).relayBatch(t.Context()))

	msgs := store.OutboxMsgs()
	require.Len(t, msgs, 2)
	for _, msg := range msgs {
		assert.True(t, msg.Processed)
		if msg.Params.Topic == "broken" {
			require.NotNil(t, msg.Error)
			assert.Contains(t, *msg.Error, "broker unavailable")
		} else {
			assert.Nil(t, msg.Error)
		}
	}
}

func TestRelayBatch_TransactionError(t *testing.T) {
	store := repositorytest.NewStore()
	seedOutbox(t, store, "a")
	store.FailNextTx(errors.New("connection reset"))
	producer := &fakeProducer{}

	err := newTestService(store, producer, 10).relayBatch(t.Context())
	require.Error(t, err)
	assert.Empty(t, producer.Produced())
	assert.False(t, store.OutboxMsgs()[0].Processed)
}

func TestRun_RelaysUntilCleanup(t *testing.T) {
	store := repositorytest.NewStore()
	seedOutbox(t, store, "a", "b")
	producer := &fakeProducer{}

	cleanup := newTestService(store, producer, 10).Run(t.Context())

	assert.Eventually(t, func() bool {
		return len(producer.Produced()) == 2
	}, time.Second, 5*time.Millisecond)

	cleanup()
}
