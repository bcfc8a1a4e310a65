package http

import (
	"fmt"
	"net/http"
	"time"

	"finanzas/internal/amqp"
	"finanzas/internal/core"
	"finanzas/internal/ledger/export"
	applog "finanzas/internal/log"
)

func (s *Server) handleSetGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	goal, err := req.Amount.parse()
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.ledger.SetGoal(r.Context(), goal); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.ClearGoal(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetExpenseLimit(w http.ResponseWriter, r *http.Request) {
	var req expenseLimitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	limit, err := req.toCore()
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.ledger.SetExpenseLimit(r.Context(), limit); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListScheduled(w http.ResponseWriter, r *http.Request) {
	actions, err := s.ledger.ListScheduledActions(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, export.FromScheduledActions(actions))
}

func (s *Server) handleCreateScheduled(w http.ResponseWriter, r *http.Request) {
	s.saveScheduled(w, r, "", http.StatusCreated)
}

func (s *Server) handleUpdateScheduled(w http.ResponseWriter, r *http.Request) {
	s.saveScheduled(w, r, r.PathValue("id"), http.StatusOK)
}

func (s *Server) saveScheduled(w http.ResponseWriter, r *http.Request, id string, status int) {
	var req scheduledRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	a, err := req.toCore(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	saved, err := s.ledger.SaveScheduledAction(r.Context(), a)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, status, export.FromScheduledAction(saved))
}

func (s *Server) handleDeleteScheduled(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteScheduledAction(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := s.ledger.ListMonthlyReports(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, export.FromMonthlyReports(reports))
}

type reportRequestResponse struct {
	Month  string `json:"month"`
	Queued bool   `json:"queued"`
}

// handleRequestReport answers 202 when the request went to the broker and
// 200 when the report was built before responding.
func (s *Server) handleRequestReport(w http.ResponseWriter, r *http.Request) {
	year, okYear := pathInt(r.PathValue("year"))
	month, okMonth := pathInt(r.PathValue("month"))
	if !okYear || !okMonth {
		writeError(w, r, fmt.Errorf("%w: %s/%s", amqp.ErrInvalidPeriod, r.PathValue("year"), r.PathValue("month")))
		return
	}

	queued, err := s.ledger.EnqueueReport(r.Context(), year, month)
	if err != nil {
		writeError(w, r, err)
		return
	}

	applog.FromContext(r.Context()).InfoContext(r.Context(), "Monthly report requested",
		applog.NewFields().WithOperation(applog.OpReport).WithPeriod(year, month).ToSlice()...)

	status := http.StatusOK
	if queued {
		status = http.StatusAccepted
	}
	writeJSON(w, status, reportRequestResponse{Month: core.ReportMonth(year, time.Month(month)), Queued: queued})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.Reset(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	applog.FromContext(r.Context()).WarnContext(r.Context(), "Ledger reset", applog.FieldOperation, applog.OpDelete)
	w.WriteHeader(http.StatusNoContent)
}
