package budget

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/spendwell/spendwell/pkg/category"
)

type BudgetDTO struct {
	ID         int             `json:"id"`
	CategoryID int             `json:"categoryId"`
	Amount     decimal.Decimal `json:"amount"`
	StartDate  string          `json:"startDate"`
	EndDate    string          `json:"endDate"`
	IsPaid     bool            `json:"isPaid"`
}

type OpenResultDTO struct {
	Year      int `json:"year"`
	Month     int `json:"month"`
	Created   int `json:"created"`
	Refreshed int `json:"refreshed"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// OpenMonth godoc
// @Summary Open a budget month
// @Description Creates missing budget rows for every category. Pass force=true to recompute amounts of existing rows.
// @Tags Budget
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month"
// @Param force query bool false "Recompute existing rows"
// @Success 200 {object} OpenResultDTO
// @Failure 400 {string} string "Invalid period"
// @Router /api/budget/{year}/{month}/open [post]
// @Security XUserId
func (h *Handler) OpenMonth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	year, month, err := pathPeriod(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	force := r.URL.Query().Get("force") == "true"
	log.Debugf("Opening budget month %d-%02d (force=%t)", year, month, force)

	result, err := h.service.OpenMonth(r.Context(), year, month, force)
	if err != nil {
		writeBudgetError(w, err)
		return
	}
	dto := OpenResultDTO{Year: result.Year, Month: result.Month, Created: result.Created, Refreshed: result.Refreshed}
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// ListBudgets godoc
// @Summary List the budget rows of a month
// @Tags Budget
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month"
// @Success 200 {array} BudgetDTO
// @Failure 400 {string} string "Invalid period"
// @Router /api/budget/{year}/{month} [get]
// @Security XUserId
func (h *Handler) ListBudgets(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	year, month, err := pathPeriod(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	budgets, err := h.service.ListForMonth(r.Context(), year, month)
	if err != nil {
		writeBudgetError(w, err)
		return
	}
	dtos := make([]BudgetDTO, 0, len(budgets))
	for _, b := range budgets {
		dtos = append(dtos, toDTO(b))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// UpdateAmount godoc
// @Summary Set the budgeted amount of a category for a month
// @Description Creates the budget row when it does not exist yet
// @Tags Budget
// @Accept json
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month"
// @Param categoryId path int true "Category ID"
// @Param amount body object{amount=string} true "Amount"
// @Success 200 {object} BudgetDTO
// @Failure 400 {string} string "Invalid period or amount"
// @Failure 404 {string} string "Category Not Found"
// @Router /api/budget/{year}/{month}/category/{categoryId} [put]
// @Security XUserId
func (h *Handler) UpdateAmount(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	year, month, err := pathPeriod(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	categoryId, err := strconv.Atoi(mux.Vars(r)["categoryId"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var amountDTO struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&amountDTO); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	b, err := h.service.UpdateAmount(r.Context(), categoryId, year, month, amountDTO.Amount)
	if err != nil {
		writeBudgetError(w, err)
		return
	}
	if err := json.NewEncoder(w).Encode(toDTO(b)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// TogglePaid godoc
// @Summary Toggle the paid flag of a manual budget row
// @Tags Budget
// @Produce json
// @Param budgetId path int true "Budget ID"
// @Success 200 {object} BudgetDTO
// @Failure 400 {string} string "Payment not toggleable"
// @Failure 404 {string} string "Budget Not Found"
// @Router /api/budget/{budgetId}/paid [put]
// @Security XUserId
func (h *Handler) TogglePaid(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	budgetId, err := strconv.Atoi(mux.Vars(r)["budgetId"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	b, err := h.service.TogglePaid(r.Context(), budgetId)
	if err != nil {
		writeBudgetError(w, err)
		return
	}
	if err := json.NewEncoder(w).Encode(toDTO(b)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func writeBudgetError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidPeriod), errors.Is(err, ErrPaymentNotToggleable):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrBudgetNotFound), errors.Is(err, category.ErrCategoryNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func toDTO(b Budget) BudgetDTO {
	return BudgetDTO{
		ID:         b.ID,
		CategoryID: b.CategoryID,
		Amount:     b.Amount,
		StartDate:  b.StartDate.Format("2006-01-02"),
		EndDate:    b.EndDate.Format("2006-01-02"),
		IsPaid:     b.IsPaid,
	}
}

func pathPeriod(r *http.Request) (int, int, error) {
	vars := mux.Vars(r)
	year, err := strconv.Atoi(vars["year"])
	if err != nil {
		return 0, 0, err
	}
	month, err := strconv.Atoi(vars["month"])
	if err != nil {
		return 0, 0, err
	}
	return year, month, nil
}
