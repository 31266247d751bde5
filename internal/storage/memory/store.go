// Package memory is the in-memory, authoritative implementation of
// interfaces.AccountStore.
//
// Each account gets its own mutex so mutations to one account serialize while
// unrelated accounts proceed in parallel; a read-write mutex protects only
// the index itself. No lock is ever held while acquiring another account's
// lock, so the store cannot deadlock.
package memory

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/paylite/idempotent-ledger/internal/interfaces"
	"github.com/paylite/idempotent-ledger/internal/models"
	"github.com/paylite/idempotent-ledger/internal/storage"
)

type accountEntry struct {
	mu    sync.Mutex
	state models.AccountState
}

// AccountStore holds all account state for the process lifetime. Accounts
// are created exactly once and never deleted.
type AccountStore struct {
	mu       sync.RWMutex // protects the accounts map itself
	accounts map[uuid.UUID]*accountEntry
}

// NewAccountStore returns an empty store.
func NewAccountStore() *AccountStore {
	return &AccountStore{
		accounts: make(map[uuid.UUID]*accountEntry),
	}
}

// Insert establishes a new account. The insert is atomic with respect to
// concurrent inserts of the same id: exactly one caller wins, the rest get
// storage.ErrAccountAlreadyExists.
func (s *AccountStore) Insert(state models.AccountState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := state.Account.ID
	if _, exists := s.accounts[id]; exists {
		return fmt.Errorf("insert %s: %w", id, storage.ErrAccountAlreadyExists)
	}
	s.accounts[id] = &accountEntry{state: state}
	return nil
}

// Get returns a snapshot of the account's current record. The snapshot may
// be stale the instant it is returned; all mutation goes through Update.
func (s *AccountStore) Get(id uuid.UUID) (models.Account, error) {
	entry, err := s.lookup(id)
	if err != nil {
		return models.Account{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.state.Account, nil
}

// Update runs fn against the account's state under its per-account mutex.
// This is the single serialization point for the account: the dedup lookup,
// the balance mutation and the outcome record all happen inside one critical
// section. The mutator must be quick and must not perform I/O.
func (s *AccountStore) Update(id uuid.UUID, fn interfaces.Mutator) (models.Outcome, error) {
	entry, err := s.lookup(id)
	if err != nil {
		return models.Outcome{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return fn(&entry.state)
}

func (s *AccountStore) lookup(id uuid.UUID) (*accountEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.accounts[id]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", id, storage.ErrAccountNotFound)
	}
	return entry, nil
}

var _ interfaces.AccountStore = (*AccountStore)(nil)
