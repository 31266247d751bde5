package models

import (
	"github.com/google/uuid"

	"github.com/paylite/idempotent-ledger/internal/money"
)

// Account is the externally visible state of an account: an opaque id
// assigned at creation and the current balance. Callers only ever see value
// copies; mutation goes through the ledger engine.
type Account struct {
	ID      uuid.UUID
	Balance money.Amount
}

// AccountState is everything the store keeps per account: the account itself
// plus the deduplication ledger of previously applied operation tokens. The
// two are co-located so a dedup lookup and a balance mutation happen inside
// the same per-account critical section, never as two interruptible steps.
type AccountState struct {
	Account  Account
	Outcomes map[uuid.UUID]Outcome
}

// NewAccountState returns the state of a freshly created account with a zero
// balance and an empty deduplication ledger.
func NewAccountState(id uuid.UUID) AccountState {
	return AccountState{
		Account:  Account{ID: id, Balance: money.Zero},
		Outcomes: make(map[uuid.UUID]Outcome),
	}
}
