package httpapi

import (
	"net/http"
	"time"

	"github.com/sengdao/splitkip/internal/engine"
	"github.com/sengdao/splitkip/internal/export"
	"github.com/sengdao/splitkip/internal/models"
)

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "time": time.Now().UTC()})
}

func (s *Server) createSplit(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TotalAmount float64  `json:"totalAmount"`
		UserNames   []string `json:"userNames"`
	}
	if err := parseBody(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}

	split, err := s.ctrl.Start(r.Context(), body.TotalAmount, body.UserNames)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, split)
}

func (s *Server) listSplits(w http.ResponseWriter, r *http.Request) {
	splits, err := s.ctrl.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if splits == nil {
		splits = []*models.Split{}
	}
	writeJSON(w, http.StatusOK, splits)
}

func (s *Server) getSplit(w http.ResponseWriter, r *http.Request) {
	split, err := s.ctrl.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, split)
}

func (s *Server) deleteSplit(w http.ResponseWriter, r *http.Request) {
	if err := s.ctrl.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) addPurchase(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserIndex int     `json:"userIndex"`
		ItemName  string  `json:"itemName"`
		Amount    float64 `json:"amount"`
	}
	if err := parseBody(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}

	split, err := s.ctrl.AddPurchase(r.Context(), r.PathValue("id"), body.UserIndex, body.ItemName, body.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, split)
}

func (s *Server) togglePaid(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID string `json:"userId"`
		IsPaid bool   `json:"isPaid"`
	}
	if err := parseBody(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}

	split, err := s.ctrl.TogglePaid(r.Context(), r.PathValue("id"), body.UserID, body.IsPaid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, split)
}

// clearSplit drops the live in-memory session without touching the persisted
// record. Subsequent reads reload the split from the store.
func (s *Server) clearSplit(w http.ResponseWriter, r *http.Request) {
	s.ctrl.Clear(r.PathValue("id"))
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) settlements(w http.ResponseWriter, r *http.Request) {
	settlements, err := s.ctrl.Settlements(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settlements)
}

func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	split, err := s.ctrl.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	// Balances and transfers must come from the same snapshot, so the
	// settlements are computed from the split just fetched rather than
	// re-read through the controller.
	settlements := engine.ComputeSettlements(split.Users)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(export.RenderSummary(split, settlements)))
}

func (s *Server) createCalculation(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TotalAmount     float64                `json:"totalAmount"`
		UserAmount      float64                `json:"userAmount"`
		CalculationType models.CalculationType `json:"calculationType"`
	}
	if err := parseBody(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}

	record, err := s.ctrl.Calculate(r.Context(), body.CalculationType, body.TotalAmount, body.UserAmount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (s *Server) listCalculations(w http.ResponseWriter, r *http.Request) {
	calcs, err := s.ctrl.Calculations(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if calcs == nil {
		calcs = []*models.Calculation{}
	}
	writeJSON(w, http.StatusOK, calcs)
}

func (s *Server) deleteCalculation(w http.ResponseWriter, r *http.Request) {
	if err := s.ctrl.DeleteCalculation(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
