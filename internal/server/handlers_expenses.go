package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/bobmcallan/fintrack/internal/analytics"
	"github.com/bobmcallan/fintrack/internal/models"
)

// dateFilterParam builds the filter from ?month=YYYY-MM|all or ?from=&to=.
// With no parameters the current month is used.
func (s *Server) dateFilterParam(w http.ResponseWriter, r *http.Request) (analytics.DateFilter, bool) {
	q := r.URL.Query()

	if from, to := q.Get("from"), q.Get("to"); from != "" || to != "" {
		var fromDate, toDate models.Date
		var err error
		if from != "" {
			if fromDate, err = models.ParseDate(from); err != nil {
				WriteErrorWithCode(w, http.StatusBadRequest, err.Error(), CodeValidation)
				return analytics.DateFilter{}, false
			}
		}
		if to != "" {
			if toDate, err = models.ParseDate(to); err != nil {
				WriteErrorWithCode(w, http.StatusBadRequest, err.Error(), CodeValidation)
				return analytics.DateFilter{}, false
			}
		}
		return analytics.Between(fromDate, toDate), true
	}

	month := strings.TrimSpace(q.Get("month"))
	switch strings.ToLower(month) {
	case "":
		return analytics.InMonth(s.app.SpendingService.CurrentMonth()), true
	case "all":
		return analytics.AllTime(), true
	}
	m, err := models.ParseMonth(month)
	if err != nil {
		WriteServiceError(w, err)
		return analytics.DateFilter{}, false
	}
	return analytics.InMonth(m), true
}

func (s *Server) handleExpensesList(w http.ResponseWriter, r *http.Request) {
	filter := analytics.AllTime()
	if len(r.URL.Query()) > 0 {
		var ok bool
		if filter, ok = s.dateFilterParam(w, r); !ok {
			return
		}
	}
	expenses := s.app.SpendingService.Expenses(filter)
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"filter":   filter.String(),
		"count":    len(expenses),
		"total":    s.app.SpendingService.Total(filter),
		"expenses": expenses,
	})
}

func (s *Server) handleExpenseAdd(w http.ResponseWriter, r *http.Request) {
	var req models.NewExpense
	if !DecodeJSON(w, r, &req) {
		return
	}
	expense, err := s.app.SpendingService.AddExpense(req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, expense)
}

func (s *Server) handleExpenseUpdate(w http.ResponseWriter, r *http.Request) {
	var req models.NewExpense
	if !DecodeJSON(w, r, &req) {
		return
	}
	expense, err := s.app.SpendingService.UpdateExpense(mux.Vars(r)["id"], req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, expense)
}

func (s *Server) handleExpenseRemove(w http.ResponseWriter, r *http.Request) {
	if err := s.app.SpendingService.RemoveExpense(mux.Vars(r)["id"]); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExpensesBreakdown(w http.ResponseWriter, r *http.Request) {
	filter, ok := s.dateFilterParam(w, r)
	if !ok {
		return
	}
	breakdown, err := s.app.SpendingService.Breakdown(filter)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"filter":     filter.String(),
		"total":      s.app.SpendingService.Total(filter),
		"categories": breakdown,
	})
}

func (s *Server) handleExpensesBreakdownChart(w http.ResponseWriter, r *http.Request) {
	filter, ok := s.dateFilterParam(w, r)
	if !ok {
		return
	}
	png, err := s.app.SpendingService.RenderBreakdownChart(filter)
	if err != nil {
		if errors.Is(err, models.ErrUnknownCategory) {
			WriteServiceError(w, err)
			return
		}
		WriteErrorWithCode(w, http.StatusUnprocessableEntity, err.Error(), CodeValidation)
		return
	}
	WritePNG(w, png)
}

func (s *Server) handleExpensesComparison(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, s.app.SpendingService.Comparison())
}
