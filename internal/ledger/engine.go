// Package ledger implements the idempotent ledger engine: atomic balance
// mutation per account, exactly-once application of tokenized operations
// under retries and concurrent callers, and the deadlock-free cross-account
// transfer protocol.
package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/paylite/idempotent-ledger/internal/interfaces"
	"github.com/paylite/idempotent-ledger/internal/models"
	"github.com/paylite/idempotent-ledger/internal/models/events"
	"github.com/paylite/idempotent-ledger/internal/money"
)

// Engine orchestrates deposits, withdrawals and transfers against the
// account store. Every balance mutation and its deduplication bookkeeping
// happen inside a single AccountStore.Update critical section; the engine
// itself holds no locks and performs no I/O inside a mutator.
type Engine struct {
	store     interfaces.AccountStore
	archive   interfaces.OperationArchive
	publisher interfaces.EventPublisher
	log       *zap.Logger
}

// Option configures optional engine collaborators.
type Option func(*Engine)

// WithArchive journals terminal operations to the given archive.
func WithArchive(archive interfaces.OperationArchive) Option {
	return func(e *Engine) { e.archive = archive }
}

// WithPublisher emits OperationApplied events after terminal successes.
func WithPublisher(publisher interfaces.EventPublisher) Option {
	return func(e *Engine) { e.publisher = publisher }
}

// WithLogger replaces the default no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// NewEngine builds an engine over the given store.
func NewEngine(store interfaces.AccountStore, opts ...Option) *Engine {
	e := &Engine{
		store: store,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CreateAccount establishes a new account with a zero balance. The id is
// client-supplied, unique and never reused; a duplicate id fails with
// storage.ErrAccountAlreadyExists.
func (e *Engine) CreateAccount(id uuid.UUID) (models.Account, error) {
	state := models.NewAccountState(id)
	if err := e.store.Insert(state); err != nil {
		return models.Account{}, err
	}

	e.log.Info("account created", zap.String("account_id", id.String()))
	return state.Account, nil
}

// GetAccount returns a snapshot of the account's current state.
func (e *Engine) GetAccount(id uuid.UUID) (models.Account, error) {
	return e.store.Get(id)
}

// Deposit credits amount to the account. A replay of a known token returns
// the recorded outcome without touching the balance.
func (e *Engine) Deposit(ctx context.Context, id uuid.UUID, amount money.Amount, token uuid.UUID) (models.Account, error) {
	if !amount.IsPositive() {
		return models.Account{}, money.ErrInvalidAmount
	}

	applied := false
	outcome, err := e.store.Update(id, func(state *models.AccountState) (models.Outcome, error) {
		if prior, ok := state.Outcomes[token]; ok {
			return replay(prior, models.OperationDeposit, amount, uuid.Nil)
		}

		state.Account.Balance = state.Account.Balance.Add(amount)
		out := models.Outcome{
			Status:  models.OutcomeApplied,
			Kind:    models.OperationDeposit,
			Amount:  amount,
			Account: state.Account,
		}
		state.Outcomes[token] = out
		applied = true
		return out, nil
	})
	if err != nil {
		return models.Account{}, err
	}

	if applied {
		e.finish(ctx, token, models.OperationDeposit, id, uuid.Nil, amount, outcome)
	}
	return outcome.Account, nil
}

// Withdraw debits amount from the account. An insufficient balance is a
// terminal outcome: it is recorded under the token and replayed as-is even
// if the balance has grown since.
func (e *Engine) Withdraw(ctx context.Context, id uuid.UUID, amount money.Amount, token uuid.UUID) (models.Account, error) {
	if !amount.IsPositive() {
		return models.Account{}, money.ErrInvalidAmount
	}

	applied := false
	outcome, err := e.store.Update(id, func(state *models.AccountState) (models.Outcome, error) {
		if prior, ok := state.Outcomes[token]; ok {
			return replay(prior, models.OperationWithdraw, amount, uuid.Nil)
		}
		applied = true

		out := models.Outcome{
			Kind:    models.OperationWithdraw,
			Amount:  amount,
			Account: state.Account,
		}
		newBalance, subErr := state.Account.Balance.Subtract(amount)
		if subErr != nil {
			out.Status = models.OutcomeFailed
			out.Err = subErr
			state.Outcomes[token] = out
			return out, subErr
		}

		state.Account.Balance = newBalance
		out.Status = models.OutcomeApplied
		out.Account = state.Account
		state.Outcomes[token] = out
		return out, nil
	})
	if applied {
		e.finish(ctx, token, models.OperationWithdraw, id, uuid.Nil, amount, outcome)
	}
	if err != nil {
		return models.Account{}, err
	}
	return outcome.Account, nil
}

// Transfer moves amount from source to destination. The store only
// guarantees atomicity per account, so a transfer is three per-account
// steps, none of which holds two locks at once:
//
//  1. debit the source and record the token as pending,
//  2. credit the destination,
//  3. back on the source, finalize the token, or, if the credit failed,
//     reverse the debit and record the terminal failure (compensation).
//
// Another caller may observe the source between steps 1 and 3 in the
// debited-but-not-credited state; that window is resolved deterministically
// by step 3 and is never left open. Per token, at most one debit and one
// matching credit ever apply.
func (e *Engine) Transfer(ctx context.Context, sourceID, destinationID uuid.UUID, amount money.Amount, token uuid.UUID) (models.Account, error) {
	if !amount.IsPositive() {
		return models.Account{}, money.ErrInvalidAmount
	}
	if sourceID == destinationID {
		return models.Account{}, ErrSameAccount
	}

	debited := false
	outcome, err := e.store.Update(sourceID, func(state *models.AccountState) (models.Outcome, error) {
		if prior, ok := state.Outcomes[token]; ok {
			return replay(prior, models.OperationTransfer, amount, destinationID)
		}
		debited = true

		out := models.Outcome{
			Kind:        models.OperationTransfer,
			Amount:      amount,
			Destination: destinationID,
			Account:     state.Account,
		}
		newBalance, subErr := state.Account.Balance.Subtract(amount)
		if subErr != nil {
			out.Status = models.OutcomeFailed
			out.Err = subErr
			state.Outcomes[token] = out
			return out, subErr
		}

		// Debit committed. The token stays pending until the credit leg
		// settles; replays arriving in the window get ErrOperationInProgress.
		state.Account.Balance = newBalance
		out.Status = models.OutcomePending
		out.Account = state.Account
		state.Outcomes[token] = out
		return out, nil
	})
	if err != nil {
		if debited {
			// Terminal failure on the source leg (insufficient funds).
			e.finish(ctx, token, models.OperationTransfer, sourceID, destinationID, amount, outcome)
		}
		return models.Account{}, err
	}
	if !debited {
		// Terminal success replayed from the dedup ledger.
		return outcome.Account, nil
	}

	credited, creditErr := e.store.Update(destinationID, func(state *models.AccountState) (models.Outcome, error) {
		state.Account.Balance = state.Account.Balance.Add(amount)
		return models.Outcome{Account: state.Account}, nil
	})

	if creditErr != nil {
		// Credit leg failed (destination does not exist). Reverse the debit
		// and pin the token to the terminal failure so a retry replays it
		// instead of debiting again.
		outcome, _ = e.store.Update(sourceID, func(state *models.AccountState) (models.Outcome, error) {
			state.Account.Balance = state.Account.Balance.Add(amount)
			out := state.Outcomes[token]
			out.Status = models.OutcomeFailed
			out.Account = state.Account
			out.Err = creditErr
			state.Outcomes[token] = out
			return out, nil
		})
		e.log.Warn("transfer compensated",
			zap.String("source_account_id", sourceID.String()),
			zap.String("destination_account_id", destinationID.String()),
			zap.String("token", token.String()),
			zap.Error(creditErr),
		)
		e.finish(ctx, token, models.OperationTransfer, sourceID, destinationID, amount, outcome)
		return models.Account{}, creditErr
	}

	outcome, err = e.store.Update(sourceID, func(state *models.AccountState) (models.Outcome, error) {
		out := state.Outcomes[token]
		out.Status = models.OutcomeApplied
		destination := credited.Account
		out.DestinationAccount = &destination
		state.Outcomes[token] = out
		return out, nil
	})
	if err != nil {
		return models.Account{}, err
	}

	e.finish(ctx, token, models.OperationTransfer, sourceID, destinationID, amount, outcome)
	return outcome.Account, nil
}

// replay resolves a request whose token is already in the dedup ledger. A
// mismatch in arguments is rejected, a pending transfer is still in flight,
// and a terminal outcome is returned verbatim.
func replay(prior models.Outcome, kind models.OperationKind, amount money.Amount, destination uuid.UUID) (models.Outcome, error) {
	if !prior.Matches(kind, amount, destination) {
		return models.Outcome{}, ErrTokenReused
	}
	if !prior.Terminal() {
		return models.Outcome{}, ErrOperationInProgress
	}
	if prior.Err != nil {
		return prior, prior.Err
	}
	return prior, nil
}

// finish journals a freshly terminal operation and, on success, publishes an
// OperationApplied event. Both are best-effort and happen after every lock
// has been released; replayed outcomes never reach here.
func (e *Engine) finish(ctx context.Context, token uuid.UUID, kind models.OperationKind, accountID, destinationID uuid.UUID, amount money.Amount, outcome models.Outcome) {
	op := models.Operation{
		Token:       token,
		Kind:        kind,
		AccountID:   accountID,
		Destination: destinationID,
		Amount:      amount,
		Succeeded:   outcome.Status == models.OutcomeApplied,
		CreatedAt:   time.Now().UTC(),
	}

	if e.archive != nil {
		if err := e.archive.Record(ctx, op); err != nil {
			e.log.Error("archive record failed",
				zap.String("token", token.String()),
				zap.Error(err),
			)
		}
	}

	if e.publisher == nil || !op.Succeeded {
		return
	}

	event := events.OperationApplied{
		Token:      token.String(),
		Kind:       string(kind),
		AccountID:  accountID.String(),
		Amount:     amount.Decimal(),
		Balance:    outcome.Account.Balance.Decimal(),
		OccurredAt: op.CreatedAt,
	}
	if destinationID != uuid.Nil {
		event.DestinationAccountID = destinationID.String()
	}
	if err := e.publisher.Publish(events.TopicOperationApplied, event); err != nil {
		e.log.Error("event publish failed",
			zap.String("token", token.String()),
			zap.Error(err),
		)
	}
}
