package server

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/bobmcallan/fintrack/internal/models"
)

// maxBatchSymbols caps GET /api/quotes?symbols=.
const maxBatchSymbols = 25

// ClientIDHeader names the caller for quote selection. A caller's newer
// GET /api/quotes/{symbol} supersedes its own request still in flight, which then
// answers 409. Requests from other callers, or without an id, are never superseded.
const ClientIDHeader = "X-Client-ID"

// selectionClient returns the caller id from the header or the ?client= parameter.
func selectionClient(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(ClientIDHeader)); id != "" {
		return id
	}
	return strings.TrimSpace(r.URL.Query().Get("client"))
}

func (s *Server) handleQuoteGet(w http.ResponseWriter, r *http.Request) {
	quote, err := s.app.Tracker.Select(r.Context(), selectionClient(r), mux.Vars(r)["symbol"])
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, quote)
}

func (s *Server) handleQuotesBatch(w http.ResponseWriter, r *http.Request) {
	var symbols []string
	for _, sym := range strings.Split(r.URL.Query().Get("symbols"), ",") {
		if sym = strings.ToUpper(strings.TrimSpace(sym)); sym != "" {
			symbols = append(symbols, sym)
		}
	}
	if len(symbols) == 0 {
		WriteServiceError(w, models.NewValidationError("symbols", "is required"))
		return
	}
	if len(symbols) > maxBatchSymbols {
		WriteServiceError(w, models.NewValidationError("symbols", "too many symbols"))
		return
	}

	quotes := s.app.QuoteService.FetchQuotes(r.Context(), symbols)
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"requested": len(symbols),
		"quotes":    quotes,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	results, err := s.app.QuoteService.SearchSymbols(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
	})
}
