package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/paylite/idempotent-ledger/internal/ledger"
	"github.com/paylite/idempotent-ledger/internal/models"
	"github.com/paylite/idempotent-ledger/internal/money"
	"github.com/paylite/idempotent-ledger/internal/storage"
)

// displayScale is the fixed number of decimal places balances are rendered
// at on the wire. The core never rounds; only this layer does.
const displayScale = 2

type accountResponse struct {
	ID      string `json:"id"`
	Balance string `json:"balance"`
}

func toAccountResponse(a models.Account) accountResponse {
	return accountResponse{
		ID:      a.ID.String(),
		Balance: a.Balance.StringFixed(displayScale),
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, err error) {
	writeJSON(w, statusFromErr(err), errorResponse{Error: err.Error()})
}

// statusFromErr maps the engine's deterministic error kinds onto HTTP
// statuses. Anything unrecognized is a 500, which should not happen for
// well-formed requests.
func statusFromErr(err error) int {
	switch {
	case errors.Is(err, money.ErrInvalidAmount), errors.Is(err, ledger.ErrSameAccount):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrAccountAlreadyExists),
		errors.Is(err, ledger.ErrTokenReused),
		errors.Is(err, ledger.ErrOperationInProgress):
		return http.StatusConflict
	case errors.Is(err, money.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
