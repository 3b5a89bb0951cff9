package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bobmcallan/fintrack/internal/models"
)

func (s *Server) handlePortfolioSummary(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, s.app.PortfolioService.Summary())
}

func (s *Server) handlePortfolioAllocation(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"allocation": s.app.PortfolioService.Allocation(),
	})
}

func (s *Server) handlePortfolioMovers(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, s.app.PortfolioService.Movers())
}

func (s *Server) handleHoldingsList(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"holdings": s.app.PortfolioService.Holdings(),
	})
}

func (s *Server) handleHoldingAdd(w http.ResponseWriter, r *http.Request) {
	var req models.NewHolding
	if !DecodeJSON(w, r, &req) {
		return
	}

	holding, err := s.app.PortfolioService.AddHolding(r.Context(), req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, holding)
}

func (s *Server) handleHoldingRemove(w http.ResponseWriter, r *http.Request) {
	if err := s.app.PortfolioService.RemoveHolding(mux.Vars(r)["id"]); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// timeRangeParam reads ?range=, defaulting to ALL.
func timeRangeParam(w http.ResponseWriter, r *http.Request) (models.TimeRange, bool) {
	rng, err := models.ParseTimeRange(r.URL.Query().Get("range"))
	if err != nil {
		WriteServiceError(w, err)
		return "", false
	}
	return rng, true
}

func (s *Server) handlePortfolioHistory(w http.ResponseWriter, r *http.Request) {
	rng, ok := timeRangeParam(w, r)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"range":  rng,
		"points": s.app.PortfolioService.History(rng),
	})
}

func (s *Server) handlePortfolioHistoryChart(w http.ResponseWriter, r *http.Request) {
	rng, ok := timeRangeParam(w, r)
	if !ok {
		return
	}
	png, err := s.app.PortfolioService.RenderHistoryChart(rng)
	if err != nil {
		WriteErrorWithCode(w, http.StatusUnprocessableEntity, err.Error(), CodeValidation)
		return
	}
	WritePNG(w, png)
}
