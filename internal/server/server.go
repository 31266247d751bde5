// Package server is the HTTP transport for the ledger engine. Handlers parse
// and validate wire input, call the engine, and translate outcomes into JSON
// responses; no business logic lives here.
package server

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/paylite/idempotent-ledger/internal/ledger"
)

// Server binds the engine to HTTP handlers.
type Server struct {
	engine *ledger.Engine
	log    *zap.Logger
}

// New builds a Server. A nil logger falls back to a no-op one.
func New(engine *ledger.Engine, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{engine: engine, log: log}
}

// Router registers all routes on a fresh mux.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.health)

	mux.HandleFunc("POST /accounts", s.createAccount)
	mux.HandleFunc("GET /accounts/{accountID}", s.getAccount)
	mux.HandleFunc("POST /accounts/{accountID}/deposit", s.deposit)
	mux.HandleFunc("POST /accounts/{accountID}/withdraw", s.withdraw)
	mux.HandleFunc("POST /accounts/{accountID}/transfer", s.transfer)

	return mux
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
