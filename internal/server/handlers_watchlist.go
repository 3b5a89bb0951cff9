package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (s *Server) handleWatchlistList(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items": s.app.WatchlistService.Items(),
	})
}

func (s *Server) handleWatchlistAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Symbol string `json:"symbol"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	item, added, err := s.app.WatchlistService.Add(r.Context(), req.Symbol)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	status := http.StatusCreated
	if !added {
		status = http.StatusOK
	}
	WriteJSON(w, status, map[string]interface{}{
		"item":  item,
		"added": added,
	})
}

func (s *Server) handleWatchlistRemove(w http.ResponseWriter, r *http.Request) {
	if err := s.app.WatchlistService.Remove(mux.Vars(r)["id"]); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWatchlistPromote(w http.ResponseWriter, r *http.Request) {
	holding, err := s.app.WatchlistService.Promote(mux.Vars(r)["id"])
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, holding)
}

func (s *Server) handleWatchlistSummary(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, s.app.WatchlistService.Summary())
}

func (s *Server) handleWatchlistMovers(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, s.app.WatchlistService.Movers())
}
