// Package httpapi exposes the split workflow as a JSON HTTP surface. It is
// the presentation/event collaborator boundary: it issues commands to the
// session controller and renders snapshots and failure messages.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sengdao/splitkip/internal/calc"
	"github.com/sengdao/splitkip/internal/engine"
	"github.com/sengdao/splitkip/internal/session"
	"github.com/sengdao/splitkip/internal/storage"
)

type Server struct {
	ctrl *session.Controller
}

func NewServer(ctrl *session.Controller) *Server {
	return &Server{ctrl: ctrl}
}

// Register mounts all API routes on the mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.health)

	mux.HandleFunc("POST /api/splits", s.createSplit)
	mux.HandleFunc("GET /api/splits", s.listSplits)
	mux.HandleFunc("GET /api/splits/{id}", s.getSplit)
	mux.HandleFunc("DELETE /api/splits/{id}", s.deleteSplit)
	mux.HandleFunc("POST /api/splits/{id}/purchases", s.addPurchase)
	mux.HandleFunc("POST /api/splits/{id}/paid", s.togglePaid)
	mux.HandleFunc("POST /api/splits/{id}/clear", s.clearSplit)
	mux.HandleFunc("GET /api/splits/{id}/settlements", s.settlements)
	mux.HandleFunc("GET /api/splits/{id}/summary", s.summary)

	mux.HandleFunc("POST /api/calculations", s.createCalculation)
	mux.HandleFunc("GET /api/calculations", s.listCalculations)
	mux.HandleFunc("DELETE /api/calculations/{id}", s.deleteCalculation)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseBody(r *http.Request, dst any) error { return json.NewDecoder(r.Body).Decode(dst) }

// writeError maps the error taxonomy to HTTP statuses: recoverable
// validation and balance failures are 400 with the message for the user,
// missing records are 404, everything else 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case isValidationError(err):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, storage.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func isValidationError(err error) bool {
	for _, target := range []error{
		engine.ErrInvalidAmount,
		engine.ErrInsufficientBalance,
		engine.ErrBlankName,
		engine.ErrBlankItem,
		engine.ErrNoParticipants,
		calc.ErrNonPositiveInput,
		calc.ErrAmountExceedsTotal,
		calc.ErrUnknownType,
		session.ErrUnknownUser,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
