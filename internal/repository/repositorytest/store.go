// Package repositorytest provides an in-memory stand-in for the postgres
// repositories. Transactions are serialized and roll back on error.
package repositorytest

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/inventory-keeper/internal/model"
	"github.com/tuanvumaihuynh/inventory-keeper/internal/repository"
	"github.com/tuanvumaihuynh/inventory-keeper/internal/storage/db"
)

// OutboxMsg is an outbox message as recorded by the store.
type OutboxMsg struct {
	ID        uuid.UUID
	Params    repository.CreateOutboxMsgParams
	Processed bool
	Error     *string
}

type Store struct {
	mu     sync.Mutex
	items  []model.InventoryItem
	outbox []OutboxMsg

	txErr   error
	listErr error
}

var _ db.Transactor = (*Store)(nil)

func NewStore() *Store {
	return &Store{}
}

// FailNextTx makes the next WithTx return err without running its function.
func (s *Store) FailNextTx(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txErr = err
}

// FailListing makes every list call outside a transaction return err.
func (s *Store) FailListing(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listErr = err
}

func (s *Store) WithTx(ctx context.Context, txFunc func(db.DB) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.txErr; err != nil {
		s.txErr = nil
		return err
	}

	items := slices.Clone(s.items)
	outbox := slices.Clone(s.outbox)

	if err := txFunc(nil); err != nil {
		s.items = items
		s.outbox = outbox
		return err
	}

	return nil
}

// Items returns a snapshot of the stored items in insertion order.
func (s *Store) Items() []model.InventoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// OutboxMsgs returns a snapshot of the stored outbox messages.
func (s *Store) OutboxMsgs() []OutboxMsg {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.outbox)
}

func (s *Store) InventoryItemRepository() repository.InventoryItemRepository {
	return &inventoryItemRepository{store: s}
}

func (s *Store) OutboxMsgRepository() repository.OutboxMsgRepository {
	return &outboxMsgRepository{store: s}
}

// lock acquires the store mutex unless the caller already runs inside
// WithTx, which holds it.
func (s *Store) lock(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) indexOf(id uuid.UUID) int {
	return slices.IndexFunc(s.items, func(item model.InventoryItem) bool {
		return item.ID == id
	})
}
