package repositorytest

import (
	"context"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/inventory-keeper/internal/repository"
	"github.com/tuanvumaihuynh/inventory-keeper/internal/storage/db"
)

type outboxMsgRepository struct {
	store *Store
	inTx  bool
}

var _ repository.OutboxMsgRepository = (*outboxMsgRepository)(nil)

func (r *outboxMsgRepository) WithDB(db.DB) repository.OutboxMsgRepository {
	return &outboxMsgRepository{store: r.store, inTx: true}
}

func (r *outboxMsgRepository) CreateOutboxMsg(_ context.Context, params repository.CreateOutboxMsgParams) error {
	defer r.store.lock(r.inTx)()

	r.store.outbox = append(r.store.outbox, OutboxMsg{
		ID:     uuid.New(),
		Params: params,
	})
	return nil
}

func (r *outboxMsgRepository) ListUnprocessedOutboxMsgs(_ context.Context, params repository.ListUnprocessedOutboxMsgsParams) ([]repository.ListUnprocessedOutboxMsgsResult, error) {
	defer r.store.lock(r.inTx)()

	var results []repository.ListUnprocessedOutboxMsgsResult
	for _, msg := range r.store.outbox {
		if msg.Processed {
			continue
		}
		if int32(len(results)) >= params.BatchSize {
			break
		}
		results = append(results, repository.ListUnprocessedOutboxMsgsResult{
			ID:           msg.ID,
			Topic:        msg.Params.Topic,
			Headers:      msg.Params.Headers,
			Payload:      msg.Params.Payload,
			PartitionKey: msg.Params.PartitionKey,
		})
	}
	return results, nil
}

func (r *outboxMsgRepository) BulkUpdateOutboxMsgs(_ context.Context, params repository.BulkUpdateOutboxMsgsParams) error {
	defer r.store.lock(r.inTx)()

	for _, item := range params.Items {
		for i := range r.store.outbox {
			if r.store.outbox[i].ID == item.ID {
				r.store.outbox[i].Processed = true
				r.store.outbox[i].Error = item.Error
			}
		}
	}
	return nil
}
