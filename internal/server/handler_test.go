package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paylite/idempotent-ledger/internal/ledger"
	"github.com/paylite/idempotent-ledger/internal/storage/memory"
)

func newTestServer() http.Handler {
	engine := ledger.NewEngine(memory.NewAccountStore())
	return New(engine, nil).Router()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeAccount(t *testing.T, rec *httptest.ResponseRecorder) accountResponse {
	t.Helper()
	var resp accountResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestCreateAndGetAccount(t *testing.T) {
	h := newTestServer()
	id := uuid.New()

	rec := doJSON(t, h, http.MethodPost, "/accounts", map[string]any{"id": id})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeAccount(t, rec)
	assert.Equal(t, id.String(), created.ID)
	assert.Equal(t, "0.00", created.Balance)

	rec = doJSON(t, h, http.MethodPost, "/accounts", map[string]any{"id": id})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/accounts/"+id.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0.00", decodeAccount(t, rec).Balance)

	rec = doJSON(t, h, http.MethodGet, "/accounts/"+uuid.New().String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/accounts/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDepositEndpoint(t *testing.T) {
	h := newTestServer()
	id := uuid.New()
	doJSON(t, h, http.MethodPost, "/accounts", map[string]any{"id": id})

	token := uuid.New()
	body := map[string]any{"amount": "100.00", "deduplication_id": token}

	rec := doJSON(t, h, http.MethodPost, fmt.Sprintf("/accounts/%s/deposit", id), body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "100.00", decodeAccount(t, rec).Balance)

	// Retried request: identical response, balance unchanged.
	rec = doJSON(t, h, http.MethodPost, fmt.Sprintf("/accounts/%s/deposit", id), body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "100.00", decodeAccount(t, rec).Balance)

	// Same token with a different amount is a conflict.
	rec = doJSON(t, h, http.MethodPost, fmt.Sprintf("/accounts/%s/deposit", id),
		map[string]any{"amount": "999.00", "deduplication_id": token})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, h, http.MethodPost, fmt.Sprintf("/accounts/%s/deposit", id),
		map[string]any{"amount": "-5.00", "deduplication_id": uuid.New()})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, fmt.Sprintf("/accounts/%s/deposit", id),
		map[string]any{"amount": "5.00"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "missing deduplication_id")
}

func TestWithdrawEndpoint(t *testing.T) {
	h := newTestServer()
	id := uuid.New()
	doJSON(t, h, http.MethodPost, "/accounts", map[string]any{"id": id})
	doJSON(t, h, http.MethodPost, fmt.Sprintf("/accounts/%s/deposit", id),
		map[string]any{"amount": "100.00", "deduplication_id": uuid.New()})

	rec := doJSON(t, h, http.MethodPost, fmt.Sprintf("/accounts/%s/withdraw", id),
		map[string]any{"amount": "150.00", "deduplication_id": uuid.New()})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doJSON(t, h, http.MethodPost, fmt.Sprintf("/accounts/%s/withdraw", id),
		map[string]any{"amount": "40.00", "deduplication_id": uuid.New()})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "60.00", decodeAccount(t, rec).Balance)
}

func TestTransferEndpoint(t *testing.T) {
	h := newTestServer()
	src, dst := uuid.New(), uuid.New()
	doJSON(t, h, http.MethodPost, "/accounts", map[string]any{"id": src})
	doJSON(t, h, http.MethodPost, "/accounts", map[string]any{"id": dst})
	doJSON(t, h, http.MethodPost, fmt.Sprintf("/accounts/%s/deposit", src),
		map[string]any{"amount": "100.00", "deduplication_id": uuid.New()})

	rec := doJSON(t, h, http.MethodPost, fmt.Sprintf("/accounts/%s/transfer", src),
		map[string]any{
			"destination_account_id": dst,
			"amount":                 "40.00",
			"deduplication_id":       uuid.New(),
		})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "60.00", decodeAccount(t, rec).Balance)

	rec = doJSON(t, h, http.MethodGet, "/accounts/"+dst.String(), nil)
	assert.Equal(t, "40.00", decodeAccount(t, rec).Balance)

	// Destination missing: 404 and the source balance is untouched.
	rec = doJSON(t, h, http.MethodPost, fmt.Sprintf("/accounts/%s/transfer", src),
		map[string]any{
			"destination_account_id": uuid.New(),
			"amount":                 "10.00",
			"deduplication_id":       uuid.New(),
		})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/accounts/"+src.String(), nil)
	assert.Equal(t, "60.00", decodeAccount(t, rec).Balance)
}

func TestHealth(t *testing.T) {
	h := newTestServer()
	rec := doJSON(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
