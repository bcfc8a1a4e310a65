package http

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"finanzas/internal/core"
	"finanzas/internal/ledger/export"
	applog "finanzas/internal/log"
)

const maxListLimit = 500

// handleListTransactions lists newest first, optionally filtered by ?type=,
// ?month=YYYY-MM and capped by ?limit=.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var typ core.TransactionType
	if v := q.Get("type"); v != "" {
		t, err := kind(v)
		if err != nil {
			writeError(w, r, err)
			return
		}
		typ = t
	}
	var month time.Time
	if v := q.Get("month"); v != "" {
		m, err := time.Parse("2006-01", v)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: month %q", core.ErrInvalidDate, v))
			return
		}
		month = m
	}
	limit := maxListLimit
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, r, fmt.Errorf("%w: limit must be a positive integer", errMalformedBody))
			return
		}
		limit = min(n, maxListLimit)
	}

	snap, err := s.reader.Snapshot(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]core.Transaction, 0, len(snap.Transactions))
	for _, t := range snap.Transactions {
		if typ != "" && t.Type != typ {
			continue
		}
		if !month.IsZero() && (t.Date.Year() != month.Year() || t.Date.Month() != month.Month()) {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if len(out) > limit {
		out = out[:limit]
	}
	writeJSON(w, http.StatusOK, export.FromTransactions(out))
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	tx, err := req.toCore(s.now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	saved, err := s.ledger.AddTransaction(r.Context(), tx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Transaction created",
		applog.NewFields().
			WithOperation(applog.OpCreate).
			WithTransaction(string(saved.Type), saved.Amount.String(), saved.Category).
			ToSlice()...)
	writeJSON(w, http.StatusCreated, export.FromTransaction(saved))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteTransaction(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateContribution(w http.ResponseWriter, r *http.Request) {
	s.createSavings(w, r, s.ledger.AddContribution)
}

func (s *Server) handleCreateWithdrawal(w http.ResponseWriter, r *http.Request) {
	s.createSavings(w, r, s.ledger.AddWithdrawal)
}

func (s *Server) createSavings(w http.ResponseWriter, r *http.Request, add func(context.Context, core.SavingsEntry) (core.SavingsEntry, error)) {
	var req savingsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	e, err := req.toCore(s.now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	saved, err := add(r.Context(), e)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, export.FromSavingsEntry(saved))
}

func (s *Server) handleDeleteContribution(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteContribution(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteWithdrawal(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteWithdrawal(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	k, err := kind(r.PathValue("kind"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	cats, err := s.ledger.ListCategories(r.Context(), k)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, export.FromCategories(cats))
}

// handleCreateCategory answers with the full list after the insert.
func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	k, err := kind(r.PathValue("kind"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	meta := core.CategoryMeta{Name: sanitize(req.Name), Icon: sanitize(req.Icon)}
	if meta.Name == "" {
		writeError(w, r, core.ErrEmptyName)
		return
	}
	if err := s.ledger.AddCategory(r.Context(), k, meta); err != nil {
		writeError(w, r, err)
		return
	}
	cats, err := s.ledger.ListCategories(r.Context(), k)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, export.FromCategories(cats))
}
