package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/paylite/idempotent-ledger/internal/money"
)

// OperationKind identifies the mutating operation a deduplication token was
// first used with.
type OperationKind string

const (
	OperationDeposit  OperationKind = "deposit"
	OperationWithdraw OperationKind = "withdraw"
	OperationTransfer OperationKind = "transfer"
)

// OutcomeStatus is the per-token state machine. Deposits and withdrawals go
// New -> terminal in one step; a transfer passes through OutcomePending
// between its debit and credit legs.
type OutcomeStatus string

const (
	// OutcomePending marks a transfer token whose debit has committed but
	// whose credit has not yet been attempted. Never returned on replay.
	OutcomePending OutcomeStatus = "pending"

	// OutcomeApplied is the terminal success state.
	OutcomeApplied OutcomeStatus = "applied"

	// OutcomeFailed is the terminal failure state (insufficient funds,
	// missing destination). Replays surface the recorded failure.
	OutcomeFailed OutcomeStatus = "failed"
)

// Outcome is the value recorded against a deduplication token inside an
// account's state. Once terminal it is immutable: a replay of the same token
// returns exactly this record instead of recomputing against the current
// balance.
//
// Kind, Amount and Destination echo the original request so a replay carrying
// different arguments can be rejected instead of silently answered with an
// unrelated recorded outcome.
type Outcome struct {
	Status      OutcomeStatus
	Kind        OperationKind
	Amount      money.Amount
	Destination uuid.UUID // zero unless Kind is transfer

	// Account is the resulting source-account snapshot for a terminal
	// success. DestinationAccount is additionally set for a completed
	// transfer.
	Account            Account
	DestinationAccount *Account

	// Err is the recorded sentinel for a terminal failure.
	Err error
}

// Terminal reports whether the outcome may be replayed to callers.
func (o Outcome) Terminal() bool {
	return o.Status != OutcomePending
}

// Matches reports whether a replayed request carries the same arguments the
// token was originally recorded with.
func (o Outcome) Matches(kind OperationKind, amount money.Amount, destination uuid.UUID) bool {
	return o.Kind == kind && o.Amount.Equal(amount) && o.Destination == destination
}

// Operation is the journal record of a terminally applied operation, handed
// to the archive and the event publisher after the critical sections have
// been released.
type Operation struct {
	Token       uuid.UUID
	Kind        OperationKind
	AccountID   uuid.UUID
	Destination uuid.UUID // zero unless Kind is transfer
	Amount      money.Amount
	Succeeded   bool
	CreatedAt   time.Time
}
