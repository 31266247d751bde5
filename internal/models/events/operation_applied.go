package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// TopicOperationApplied is the broker topic OperationApplied events go to.
const TopicOperationApplied = "operation_applied"

// OperationApplied is emitted after a deposit, withdrawal or transfer reaches
// terminal success.
type OperationApplied struct {
	Token                string          `json:"token"`
	Kind                 string          `json:"kind"`
	AccountID            string          `json:"account_id"`
	DestinationAccountID string          `json:"destination_account_id,omitempty"`
	Amount               decimal.Decimal `json:"amount"`
	Balance              decimal.Decimal `json:"balance"`
	OccurredAt           time.Time       `json:"occurred_at"`
}
