package transaction

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/spendwell/spendwell/pkg/budget"
	"github.com/spendwell/spendwell/pkg/category"
)

type TransactionDTO struct {
	ID          int             `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Description string          `json:"description,omitempty"`
	CategoryID  int             `json:"categoryId,omitempty"`
	Type        string          `json:"type"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// ListTransactions godoc
// @Summary List the transactions of a month
// @Tags Transaction
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month"
// @Param categoryId query int false "Only transactions of this category"
// @Success 200 {array} TransactionDTO
// @Failure 400 {string} string "Invalid period"
// @Router /api/transaction/{year}/{month} [get]
// @Security XUserId
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
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
	categoryId := 0
	if raw := r.URL.Query().Get("categoryId"); raw != "" {
		categoryId, err = strconv.Atoi(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	transactions, err := h.service.ListForMonth(r.Context(), year, month, categoryId)
	if err != nil {
		writeTransactionError(w, err)
		return
	}
	dtos := make([]TransactionDTO, 0, len(transactions))
	for _, tx := range transactions {
		dtos = append(dtos, toDTO(tx))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// CreateTransaction godoc
// @Summary Record a transaction
// @Tags Transaction
// @Accept json
// @Produce json
// @Param transaction body TransactionDTO true "Transaction"
// @Success 201 {object} TransactionDTO
// @Failure 400 {string} string "Bad Request"
// @Router /api/transaction [post]
// @Security XUserId
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	var dto TransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	tx, err := fromDTO(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	created, err := h.service.Create(r.Context(), tx)
	if err != nil {
		writeTransactionError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(toDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// UpdateTransaction godoc
// @Summary Update a transaction
// @Tags Transaction
// @Accept json
// @Produce json
// @Param transactionId path int true "Transaction ID"
// @Param transaction body TransactionDTO true "Transaction"
// @Success 200 {object} TransactionDTO
// @Failure 404 {string} string "Transaction Not Found"
// @Router /api/transaction/{transactionId} [put]
// @Security XUserId
func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	transactionId, err := strconv.Atoi(mux.Vars(r)["transactionId"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var dto TransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	tx, err := fromDTO(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	tx.ID = transactionId
	updated, err := h.service.Update(r.Context(), tx)
	if err != nil {
		writeTransactionError(w, err)
		return
	}
	if err := json.NewEncoder(w).Encode(toDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Tags Transaction
// @Param transactionId path int true "Transaction ID"
// @Success 204 "No Content"
// @Failure 404 {string} string "Transaction Not Found"
// @Router /api/transaction/{transactionId} [delete]
// @Security XUserId
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	transactionId, err := strconv.Atoi(mux.Vars(r)["transactionId"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.service.Delete(r.Context(), transactionId); err != nil {
		writeTransactionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeTransactionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrTransactionNotFound), errors.Is(err, category.ErrCategoryNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, budget.ErrInvalidPeriod):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func toDTO(tx Transaction) TransactionDTO {
	return TransactionDTO{
		ID:          tx.ID,
		Amount:      tx.Amount,
		Date:        tx.Date.Format("2006-01-02"),
		Description: tx.Description,
		CategoryID:  tx.CategoryID,
		Type:        string(tx.Type),
	}
}

func fromDTO(dto TransactionDTO) (Transaction, error) {
	date, err := time.Parse("2006-01-02", dto.Date)
	if err != nil {
		return Transaction{}, err
	}
	return Transaction{
		Amount:      dto.Amount,
		Date:        date,
		Description: dto.Description,
		CategoryID:  dto.CategoryID,
		Type:        TransactionType(dto.Type),
	}, nil
}
