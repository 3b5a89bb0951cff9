package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

// newRouter registers every REST route.
func (s *Server) newRouter() *mux.Router {
	notFound := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		WriteErrorWithCode(w, http.StatusNotFound, "Route not found", CodeNotFound)
	})
	methodNotAllowed := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r := mux.NewRouter()
	r.NotFoundHandler = notFound
	r.MethodNotAllowedHandler = methodNotAllowed

	// Subrouters resolve unmatched requests with their own handlers.
	api := r.PathPrefix("/api").Subrouter()
	api.NotFoundHandler = notFound
	api.MethodNotAllowedHandler = methodNotAllowed

	// System
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/version", s.handleVersion).Methods(http.MethodGet)
	api.HandleFunc("/shutdown", s.handleShutdown).Methods(http.MethodPost)
	api.HandleFunc("/refresh", s.handleRefresh).Methods(http.MethodPost)

	// Portfolio
	api.HandleFunc("/portfolio/summary", s.handlePortfolioSummary).Methods(http.MethodGet)
	api.HandleFunc("/portfolio/allocation", s.handlePortfolioAllocation).Methods(http.MethodGet)
	api.HandleFunc("/portfolio/movers", s.handlePortfolioMovers).Methods(http.MethodGet)
	api.HandleFunc("/portfolio/holdings", s.handleHoldingsList).Methods(http.MethodGet)
	api.HandleFunc("/portfolio/holdings", s.handleHoldingAdd).Methods(http.MethodPost)
	api.HandleFunc("/portfolio/holdings/{id}", s.handleHoldingRemove).Methods(http.MethodDelete)
	api.HandleFunc("/portfolio/history", s.handlePortfolioHistory).Methods(http.MethodGet)
	api.HandleFunc("/portfolio/history/chart", s.handlePortfolioHistoryChart).Methods(http.MethodGet)

	// Expenses
	api.HandleFunc("/expenses", s.handleExpensesList).Methods(http.MethodGet)
	api.HandleFunc("/expenses", s.handleExpenseAdd).Methods(http.MethodPost)
	api.HandleFunc("/expenses/breakdown", s.handleExpensesBreakdown).Methods(http.MethodGet)
	api.HandleFunc("/expenses/breakdown/chart", s.handleExpensesBreakdownChart).Methods(http.MethodGet)
	api.HandleFunc("/expenses/comparison", s.handleExpensesComparison).Methods(http.MethodGet)
	api.HandleFunc("/expenses/{id}", s.handleExpenseUpdate).Methods(http.MethodPut)
	api.HandleFunc("/expenses/{id}", s.handleExpenseRemove).Methods(http.MethodDelete)

	// Watchlist
	api.HandleFunc("/watchlist", s.handleWatchlistList).Methods(http.MethodGet)
	api.HandleFunc("/watchlist", s.handleWatchlistAdd).Methods(http.MethodPost)
	api.HandleFunc("/watchlist/summary", s.handleWatchlistSummary).Methods(http.MethodGet)
	api.HandleFunc("/watchlist/movers", s.handleWatchlistMovers).Methods(http.MethodGet)
	api.HandleFunc("/watchlist/{id}", s.handleWatchlistRemove).Methods(http.MethodDelete)
	api.HandleFunc("/watchlist/{id}/promote", s.handleWatchlistPromote).Methods(http.MethodPost)

	// Quotes
	api.HandleFunc("/quotes", s.handleQuotesBatch).Methods(http.MethodGet)
	api.HandleFunc("/quotes/{symbol}", s.handleQuoteGet).Methods(http.MethodGet)
	api.HandleFunc("/search", s.handleSearch).Methods(http.MethodGet)

	// Change feed
	r.HandleFunc("/ws/changes", s.hub.ServeWS).Methods(http.MethodGet)

	return r
}
