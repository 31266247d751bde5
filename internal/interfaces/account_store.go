package interfaces

import (
	"github.com/google/uuid"

	"github.com/paylite/idempotent-ledger/internal/models"
)

// Mutator is applied to an account's state under its per-account lock. It may
// mutate the state in place and returns the outcome to hand back to the
// caller. A returned error is passed through to the caller unchanged; the
// mutator alone decides what state it commits before returning (a recorded
// terminal failure is a deliberate commit alongside an error).
type Mutator func(state *models.AccountState) (models.Outcome, error)

// AccountStore is a concurrent keyed store of account state. Update is the
// single serialization point for all per-account mutation: no two mutators
// for the same id ever observe overlapping current-state windows, while
// unrelated accounts proceed fully in parallel.
type AccountStore interface {
	// Insert establishes a new account. Fails with
	// storage.ErrAccountAlreadyExists if the id is present.
	Insert(state models.AccountState) error

	// Get returns a snapshot of the account, which may be stale the instant
	// it is returned. Fails with storage.ErrAccountNotFound.
	Get(id uuid.UUID) (models.Account, error)

	// Update atomically applies the mutator to the account's state and
	// returns its outcome. Fails with storage.ErrAccountNotFound if the
	// account does not exist; the mutator is then never invoked.
	Update(id uuid.UUID, fn Mutator) (models.Outcome, error)
}
