package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/spendtrack/spendtrack-be/internal/auth"
	"github.com/spendtrack/spendtrack-be/internal/models"
	"github.com/spendtrack/spendtrack-be/internal/query"
	"github.com/spendtrack/spendtrack-be/internal/services"
)

// ExpenseHandler handles HTTP requests for expense records.
type ExpenseHandler struct {
	service services.ExpenseServiceProvider
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(service services.ExpenseServiceProvider) *ExpenseHandler {
	return &ExpenseHandler{service: service}
}

// ExpensePayload carries expense fields for create and partial update. Every
// field is a pointer so a provided zero value (amount 0, note "") is
// distinguishable from an absent one.
type ExpensePayload struct {
	Amount   *models.Money `json:"amount"`
	Category *string       `json:"category"`
	Note     *string       `json:"note"`
	Date     *string       `json:"date"`
}

// parseDate accepts RFC 3339 timestamps and plain ISO calendar dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return query.ParseDay(s)
}

func ownerID(r *http.Request) (string, bool) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		return "", false
	}
	return claims.UserID, true
}

// Create handles recording a new expense.
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(r)
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "missing identity")
		return
	}

	var payload ExpensePayload
	if !decodeBody(w, r, &payload) {
		return
	}

	if payload.Amount == nil || payload.Category == nil {
		writeMessage(w, http.StatusBadRequest, "please provide amount and category")
		return
	}

	category, err := models.ParseCategory(*payload.Category)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var note string
	if payload.Note != nil {
		note = *payload.Note
	}

	var date time.Time
	if payload.Date != nil {
		if date, err = parseDate(*payload.Date); err != nil {
			writeServiceError(w, err)
			return
		}
	}

	expense, err := h.service.CreateExpense(userID, *payload.Amount, category, note, date)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, expense)
}

type listResponse struct {
	Expenses []models.Expense `json:"expenses"`
	query.Meta
}

// List handles filtered, paginated expense listings.
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(r)
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "missing identity")
		return
	}

	q := r.URL.Query()
	f := query.Filter{OwnerID: userID, Search: q.Get("search")}

	if c := q.Get("category"); c != "" {
		category, err := models.ParseCategory(c)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		f.Category = &category
	}
	if s := q.Get("startDate"); s != "" {
		t, err := query.ParseDay(s)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		f.StartDate = &t
	}
	if s := q.Get("endDate"); s != "" {
		t, err := query.ParseDay(s)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		f.EndDate = &t
	}

	page := 1
	if s := q.Get("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid page")
			return
		}
		page = n
	}
	limit := query.DefaultLimit
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	expenses, meta, err := h.service.ListExpenses(f, query.NewPage(page, limit))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{Expenses: expenses, Meta: meta})
}

// Update handles a partial update of an expense owned by the caller.
func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(r)
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "missing identity")
		return
	}
	id := chi.URLParam(r, "id")

	var payload ExpensePayload
	if !decodeBody(w, r, &payload) {
		return
	}

	upd := models.ExpenseUpdate{
		Amount: payload.Amount,
		Note:   payload.Note,
	}
	if payload.Category != nil {
		category, err := models.ParseCategory(*payload.Category)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		upd.Category = &category
	}
	if payload.Date != nil {
		date, err := parseDate(*payload.Date)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		upd.Date = &date
	}

	expense, err := h.service.UpdateExpense(id, userID, upd)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, expense)
}

// Delete handles removing an expense owned by the caller.
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(r)
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "missing identity")
		return
	}
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteExpense(id, userID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "expense deleted successfully")
}

// CategoryStats handles the per-category aggregation, optionally bounded by a
// date range.
func (h *ExpenseHandler) CategoryStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(r)
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "missing identity")
		return
	}

	q := r.URL.Query()
	f := query.Filter{OwnerID: userID}
	if s := q.Get("startDate"); s != "" {
		t, err := query.ParseDay(s)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		f.StartDate = &t
	}
	if s := q.Get("endDate"); s != "" {
		t, err := query.ParseDay(s)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		f.EndDate = &t
	}

	stats, total, err := h.service.CategoryStats(f)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"stats": stats,
		"total": total,
	})
}

// MonthlySummary handles the per-day aggregation of one calendar month.
func (h *ExpenseHandler) MonthlySummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(r)
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "missing identity")
		return
	}

	q := r.URL.Query()
	year, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid year")
		return
	}
	month, err := strconv.Atoi(q.Get("month"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid month")
		return
	}

	days, total, err := h.service.MonthlySummary(userID, year, month)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"expenses": days,
		"total":    total,
	})
}

// Total handles the grand-total lookup for the caller.
func (h *ExpenseHandler) Total(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(r)
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "missing identity")
		return
	}

	total, err := h.service.TotalExpense(userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"total": total})
}

// Export streams the caller's full expense history as CSV.
func (h *ExpenseHandler) Export(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(r)
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "missing identity")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=expenses.csv")

	if err := h.service.WriteCSV(userID, w); err != nil {
		// Headers are gone; all we can do is log.
		log.Error().Err(err).Str("user_id", userID).Msg("CSV export failed")
	}
}
