package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paylite/idempotent-ledger/internal/interfaces"
	"github.com/paylite/idempotent-ledger/internal/models"
	"github.com/paylite/idempotent-ledger/internal/money"
)

// OperationArchive journals terminally applied operations to Postgres. The
// token column is the primary key, so re-recording a replayed operation is a
// no-op.
type OperationArchive struct {
	db *sql.DB
}

func NewOperationArchive(db *sql.DB) *OperationArchive {
	return &OperationArchive{
		db: db,
	}
}

func (a *OperationArchive) Record(ctx context.Context, op models.Operation) error {
	const query = `INSERT INTO operations (token, kind, account_id, destination_account_id, amount, succeeded, created_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7)
	ON CONFLICT (token) DO NOTHING`

	var destination sql.NullString
	if op.Destination != uuid.Nil {
		destination = sql.NullString{String: op.Destination.String(), Valid: true}
	}

	_, err := a.db.ExecContext(ctx, query,
		op.Token.String(),
		string(op.Kind),
		op.AccountID.String(),
		destination,
		op.Amount.Decimal(),
		op.Succeeded,
		op.CreatedAt,
	)
	return err
}

func (a *OperationArchive) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]models.Operation, error) {
	const query = `SELECT token, kind, account_id, destination_account_id, amount, succeeded, created_at
	FROM operations
	WHERE account_id = $1 OR destination_account_id = $1
	ORDER BY created_at`

	rows, err := a.db.QueryContext(ctx, query, accountID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ops []models.Operation
	for rows.Next() {
		var (
			token       string
			kind        string
			account     string
			destination sql.NullString
			amount      decimal.Decimal
			succeeded   bool
			createdAt   sql.NullTime
		)
		if err := rows.Scan(&token, &kind, &account, &destination, &amount, &succeeded, &createdAt); err != nil {
			return nil, err
		}

		op := models.Operation{
			Kind:      models.OperationKind(kind),
			Succeeded: succeeded,
			CreatedAt: createdAt.Time,
		}
		if op.Token, err = uuid.Parse(token); err != nil {
			return nil, err
		}
		if op.AccountID, err = uuid.Parse(account); err != nil {
			return nil, err
		}
		if destination.Valid {
			if op.Destination, err = uuid.Parse(destination.String); err != nil {
				return nil, err
			}
		}
		if op.Amount, err = money.FromDecimal(amount); err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ops, nil
}

var _ interfaces.OperationArchive = (*OperationArchive)(nil)
