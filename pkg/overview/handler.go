package overview

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/spendwell/spendwell/pkg/budget"
)

type CategorySummaryDTO struct {
	CategoryID  int             `json:"categoryId"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	IsPaid      bool            `json:"isPaid"`
	HasChildren bool            `json:"hasChildren"`
}

type MonthlySummaryDTO struct {
	Year          int                  `json:"year"`
	Month         int                  `json:"month"`
	Categories    []CategorySummaryDTO `json:"categories"`
	TotalIncome   decimal.Decimal      `json:"totalIncome"`
	TotalExpenses decimal.Decimal      `json:"totalExpenses"`
	TotalSavings  decimal.Decimal      `json:"totalSavings"`
	Balance       decimal.Decimal      `json:"balance"`
	UnpaidCount   int                  `json:"unpaidCount"`
}

type MonthCellDTO struct {
	Amount   decimal.Decimal `json:"amount"`
	IsPaid   bool            `json:"isPaid"`
	BudgetID int             `json:"budgetId,omitempty"`
}

type YearlyRowDTO struct {
	CategoryID int                  `json:"categoryId"`
	Name       string               `json:"name"`
	Type       string               `json:"type"`
	ParentID   int                  `json:"parentId,omitempty"`
	Months     map[int]MonthCellDTO `json:"months"`
}

type YearlySummaryDTO struct {
	Year int            `json:"year"`
	Rows []YearlyRowDTO `json:"rows"`
}

type OutstandingItemDTO struct {
	BudgetID   int             `json:"budgetId"`
	CategoryID int             `json:"categoryId"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
}

type OutstandingGroupDTO struct {
	CategoryID int                  `json:"categoryId"`
	Name       string               `json:"name"`
	Items      []OutstandingItemDTO `json:"items"`
	Subtotal   decimal.Decimal      `json:"subtotal"`
}

type OutstandingSummaryDTO struct {
	Year   int                   `json:"year"`
	Month  int                   `json:"month"`
	Groups []OutstandingGroupDTO `json:"groups"`
	Total  decimal.Decimal       `json:"total"`
}

type Handler struct {
	service     Service
	csvRenderer OverviewRenderer
}

func NewHandler(service Service, csvRenderer OverviewRenderer) *Handler {
	return &Handler{service, csvRenderer}
}

// GetMonthlyOverview godoc
// @Summary Monthly dashboard of the household
// @Description Top-level categories with rolled-up amounts, per-type totals, balance, and unpaid count
// @Tags Overview
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month"
// @Success 200 {object} MonthlySummaryDTO
// @Failure 400 {string} string "Invalid period"
// @Router /api/overview/{year}/{month} [get]
// @Security XUserId
func (h *Handler) GetMonthlyOverview(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	vars := mux.Vars(r)
	year, err := strconv.Atoi(vars["year"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	month, err := strconv.Atoi(vars["month"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	summary, err := h.service.MonthlyOverview(r.Context(), year, month)
	if err != nil {
		writeOverviewError(w, err)
		return
	}
	if err := json.NewEncoder(w).Encode(toMonthlyDTO(summary)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// GetYearlyOverview godoc
// @Summary Yearly grid of the household's budgets
// @Description One row per category with a cell per month. Request with Accept: text/csv for a CSV export.
// @Tags Overview
// @Produce json
// @Produce text/csv
// @Param year path int true "Year"
// @Success 200 {object} YearlySummaryDTO
// @Failure 400 {string} string "Invalid period"
// @Router /api/overview/{year} [get]
// @Security XUserId
func (h *Handler) GetYearlyOverview(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(mux.Vars(r)["year"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	summary, err := h.service.YearlyOverview(r.Context(), year)
	if err != nil {
		writeOverviewError(w, err)
		return
	}

	if r.Header.Get("Accept") == "text/csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		csv, err := h.csvRenderer.RenderYearly(summary)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if _, err := w.Write([]byte(csv)); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(toYearlyDTO(summary)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// GetOutstandingPayments godoc
// @Summary Unpaid manual expenses of a month
// @Description Unpaid manual expense budgets grouped by top-level category with subtotals and a grand total
// @Tags Overview
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month"
// @Success 200 {object} OutstandingSummaryDTO
// @Failure 400 {string} string "Invalid period"
// @Router /api/overview/{year}/{month}/outstanding [get]
// @Security XUserId
func (h *Handler) GetOutstandingPayments(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	vars := mux.Vars(r)
	year, err := strconv.Atoi(vars["year"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	month, err := strconv.Atoi(vars["month"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	summary, err := h.service.OutstandingPayments(r.Context(), year, month)
	if err != nil {
		writeOverviewError(w, err)
		return
	}
	if err := json.NewEncoder(w).Encode(toOutstandingDTO(summary)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func writeOverviewError(w http.ResponseWriter, err error) {
	if errors.Is(err, budget.ErrInvalidPeriod) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func toMonthlyDTO(summary MonthlySummary) MonthlySummaryDTO {
	dto := MonthlySummaryDTO{
		Year:          summary.Year,
		Month:         summary.Month,
		Categories:    make([]CategorySummaryDTO, 0, len(summary.Categories)),
		TotalIncome:   summary.TotalIncome,
		TotalExpenses: summary.TotalExpenses,
		TotalSavings:  summary.TotalSavings,
		Balance:       summary.Balance,
		UnpaidCount:   summary.UnpaidCount,
	}
	for _, line := range summary.Categories {
		dto.Categories = append(dto.Categories, CategorySummaryDTO{
			CategoryID:  line.CategoryID,
			Name:        line.Name,
			Type:        string(line.Type),
			Amount:      line.Amount,
			IsPaid:      line.IsPaid,
			HasChildren: line.HasChildren,
		})
	}
	return dto
}

func toYearlyDTO(summary YearlySummary) YearlySummaryDTO {
	dto := YearlySummaryDTO{Year: summary.Year, Rows: make([]YearlyRowDTO, 0, len(summary.Rows))}
	for _, row := range summary.Rows {
		rowDTO := YearlyRowDTO{
			CategoryID: row.CategoryID,
			Name:       row.Name,
			Type:       string(row.Type),
			ParentID:   row.ParentID,
			Months:     make(map[int]MonthCellDTO, len(row.Months)),
		}
		for month, cell := range row.Months {
			rowDTO.Months[month] = MonthCellDTO{Amount: cell.Amount, IsPaid: cell.IsPaid, BudgetID: cell.BudgetID}
		}
		dto.Rows = append(dto.Rows, rowDTO)
	}
	return dto
}

func toOutstandingDTO(summary OutstandingSummary) OutstandingSummaryDTO {
	dto := OutstandingSummaryDTO{
		Year:   summary.Year,
		Month:  summary.Month,
		Groups: make([]OutstandingGroupDTO, 0, len(summary.Groups)),
		Total:  summary.Total,
	}
	for _, group := range summary.Groups {
		groupDTO := OutstandingGroupDTO{
			CategoryID: group.CategoryID,
			Name:       group.Name,
			Subtotal:   group.Subtotal,
		}
		for _, item := range group.Items {
			groupDTO.Items = append(groupDTO.Items, OutstandingItemDTO(item))
		}
		dto.Groups = append(dto.Groups, groupDTO)
	}
	return dto
}
