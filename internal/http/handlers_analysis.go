package http

import (
	"fmt"
	"net/http"
	"strconv"

	"finanzas/internal/methods"
	"finanzas/internal/services"
	"finanzas/internal/simulator"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.analysis.Summary(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	sc, err := s.analysis.Score(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	recs, err := s.analysis.Recommendations(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleMethods(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, methods.All())
}

func (s *Server) handleMethod(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	m, ok := methods.Get(id)
	if !ok {
		writeError(w, r, fmt.Errorf("%w: %q", services.ErrUnknownMethod, id))
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleBuckets(w http.ResponseWriter, r *http.Request) {
	b, err := s.analysis.Buckets(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleWeekly(w http.ResponseWriter, r *http.Request) {
	wk, err := s.analysis.Weekly(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wk)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.analysis.Dashboard(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleAdvisorContext(w http.ResponseWriter, r *http.Request) {
	c, err := s.analysis.AdvisorContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

type simulateResponse struct {
	Request  simulator.Request `json:"request"`
	Result   simulator.Result  `json:"result"`
	Duration string            `json:"duration"`
	Cached   bool              `json:"cached"`
}

func simulationKey(req simulator.Request) string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return f(req.Goal) + "|" + f(req.Monthly) + "|" + f(req.AnnualRatePct)
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var body simulateRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	req := simulator.Request{Goal: body.Goal, Monthly: body.Monthly, AnnualRatePct: simulator.DefaultAnnualRate}
	if body.AnnualRate != nil {
		req.AnnualRatePct = *body.AnnualRate
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	key := simulationKey(req)
	if res, ok := s.simulations.Get(key); ok {
		writeJSON(w, http.StatusOK, simulateResponse{Request: req, Result: res, Duration: simulator.FormatDuration(res.Months), Cached: true})
		return
	}

	res, err := req.Run()
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.simulations.Set(key, res)
	writeJSON(w, http.StatusOK, simulateResponse{Request: req, Result: res, Duration: simulator.FormatDuration(res.Months)})
}
