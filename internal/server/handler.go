package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/paylite/idempotent-ledger/internal/money"
)

type createAccountRequest struct {
	ID uuid.UUID `json:"id"`
}

type depositRequest struct {
	Amount          decimal.Decimal `json:"amount"`
	DeduplicationID uuid.UUID       `json:"deduplication_id"`
}

type withdrawRequest struct {
	Amount          decimal.Decimal `json:"amount"`
	DeduplicationID uuid.UUID       `json:"deduplication_id"`
}

type transferRequest struct {
	DestinationAccountID uuid.UUID       `json:"destination_account_id"`
	Amount               decimal.Decimal `json:"amount"`
	DeduplicationID      uuid.UUID       `json:"deduplication_id"`
}

var errMissingToken = errors.New("deduplication_id is required")

func (s *Server) createAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.ID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "id is required"})
		return
	}

	account, err := s.engine.CreateAccount(req.ID)
	if err != nil {
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAccountResponse(account))
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	accountID, err := uuid.Parse(r.PathValue("accountID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid account id"})
		return
	}

	account, err := s.engine.GetAccount(accountID)
	if err != nil {
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAccountResponse(account))
}

func (s *Server) deposit(w http.ResponseWriter, r *http.Request) {
	accountID, err := uuid.Parse(r.PathValue("accountID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid account id"})
		return
	}

	var req depositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.DeduplicationID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errMissingToken.Error()})
		return
	}

	amount, err := money.FromDecimal(req.Amount)
	if err != nil {
		writeErr(w, err)
		return
	}

	account, err := s.engine.Deposit(r.Context(), accountID, amount, req.DeduplicationID)
	if err != nil {
		writeErr(w, err)
		return
	}

	s.log.Info("deposit applied",
		zap.String("account_id", accountID.String()),
		zap.String("token", req.DeduplicationID.String()),
	)
	writeJSON(w, http.StatusOK, toAccountResponse(account))
}

func (s *Server) withdraw(w http.ResponseWriter, r *http.Request) {
	accountID, err := uuid.Parse(r.PathValue("accountID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid account id"})
		return
	}

	var req withdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.DeduplicationID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errMissingToken.Error()})
		return
	}

	amount, err := money.FromDecimal(req.Amount)
	if err != nil {
		writeErr(w, err)
		return
	}

	account, err := s.engine.Withdraw(r.Context(), accountID, amount, req.DeduplicationID)
	if err != nil {
		writeErr(w, err)
		return
	}

	s.log.Info("withdrawal applied",
		zap.String("account_id", accountID.String()),
		zap.String("token", req.DeduplicationID.String()),
	)
	writeJSON(w, http.StatusOK, toAccountResponse(account))
}

func (s *Server) transfer(w http.ResponseWriter, r *http.Request) {
	sourceID, err := uuid.Parse(r.PathValue("accountID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid account id"})
		return
	}

	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.DeduplicationID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errMissingToken.Error()})
		return
	}
	if req.DestinationAccountID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "destination_account_id is required"})
		return
	}

	amount, err := money.FromDecimal(req.Amount)
	if err != nil {
		writeErr(w, err)
		return
	}

	account, err := s.engine.Transfer(r.Context(), sourceID, req.DestinationAccountID, amount, req.DeduplicationID)
	if err != nil {
		writeErr(w, err)
		return
	}

	s.log.Info("transfer applied",
		zap.String("source_account_id", sourceID.String()),
		zap.String("destination_account_id", req.DestinationAccountID.String()),
		zap.String("token", req.DeduplicationID.String()),
	)
	writeJSON(w, http.StatusOK, toAccountResponse(account))
}
