package ledger

import "errors"

var (
	// ErrSameAccount rejects a transfer whose source and destination are the
	// same account.
	ErrSameAccount = errors.New("source and destination accounts are identical")

	// ErrTokenReused rejects a request that replays a known deduplication
	// token with different arguments than the ones originally recorded.
	ErrTokenReused = errors.New("deduplication token reused with different arguments")

	// ErrOperationInProgress rejects a replay that arrives while the
	// original transfer is still between its debit and credit legs. Only
	// terminal outcomes are replayed.
	ErrOperationInProgress = errors.New("operation still in progress")
)
