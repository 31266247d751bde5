package interfaces

import (
	"context"

	"github.com/google/uuid"

	"github.com/paylite/idempotent-ledger/internal/models"
)

// OperationArchive is an append-only journal of terminally applied
// operations. It is written outside the per-account critical sections and is
// never consulted for correctness; the in-memory store stays authoritative.
type OperationArchive interface {
	Record(ctx context.Context, op models.Operation) error
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]models.Operation, error)
}
