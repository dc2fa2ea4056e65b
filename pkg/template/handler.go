package template

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/spendwell/spendwell/pkg/budget"
	"github.com/spendwell/spendwell/pkg/category"
)

type TemplateDTO struct {
	ID          int                   `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description,omitempty"`
	IsDefault   bool                  `json:"isDefault"`
	IsActive    bool                  `json:"isActive"`
	Categories  []TemplateCategoryDTO `json:"categories,omitempty"`
}

type TemplateCategoryDTO struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	ParentID     int    `json:"parentId,omitempty"`
	IsPersistent bool   `json:"isPersistent"`
	PaymentType  string `json:"paymentType"`
	IsEssential  bool   `json:"isEssential"`
	DisplayOrder int    `json:"displayOrder"`
}

type ApplyResultDTO struct {
	TemplateName      string `json:"templateName"`
	CategoriesCreated int    `json:"categoriesCreated"`
}

type ChangeDTO struct {
	CategoryID int             `json:"categoryId"`
	Category   string          `json:"category"`
	OldAmount  decimal.Decimal `json:"oldAmount"`
	NewAmount  decimal.Decimal `json:"newAmount"`
	Action     string          `json:"action"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// ListTemplates godoc
// @Summary List budget templates
// @Tags Template
// @Produce json
// @Success 200 {array} TemplateDTO
// @Router /api/template [get]
// @Security XUserId
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	templates, err := h.service.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	dtos := make([]TemplateDTO, 0, len(templates))
	for _, t := range templates {
		dtos = append(dtos, toTemplateDTO(t))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// GetTemplate godoc
// @Summary Get a budget template with its categories
// @Tags Template
// @Produce json
// @Param templateId path int true "Template ID"
// @Success 200 {object} TemplateDTO
// @Failure 404 {string} string "Template Not Found"
// @Router /api/template/{templateId} [get]
// @Security XUserId
func (h *Handler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	templateId, err := strconv.Atoi(mux.Vars(r)["templateId"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	t, err := h.service.Get(r.Context(), templateId)
	if err != nil {
		writeTemplateError(w, err)
		return
	}
	if err := json.NewEncoder(w).Encode(toTemplateDTO(t)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// CreateTemplate godoc
// @Summary Create a budget template
// @Tags Template
// @Accept json
// @Produce json
// @Param template body TemplateDTO true "Template"
// @Success 201 {object} TemplateDTO
// @Failure 400 {string} string "Bad Request"
// @Router /api/template [post]
// @Security XUserId
func (h *Handler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new budget template")
	w.Header().Set("Content-Type", "application/json")
	var dto TemplateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	created, err := h.service.Create(r.Context(), BudgetTemplate{
		Name:        dto.Name,
		Description: dto.Description,
		IsActive:    dto.IsActive,
	})
	if err != nil {
		writeTemplateError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(toTemplateDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// UpdateTemplate godoc
// @Summary Update a budget template
// @Tags Template
// @Accept json
// @Produce json
// @Param templateId path int true "Template ID"
// @Param template body TemplateDTO true "Template"
// @Success 200 {object} TemplateDTO
// @Failure 404 {string} string "Template Not Found"
// @Router /api/template/{templateId} [put]
// @Security XUserId
func (h *Handler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	templateId, err := strconv.Atoi(mux.Vars(r)["templateId"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var dto TemplateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	updated, err := h.service.Update(r.Context(), BudgetTemplate{
		ID:          templateId,
		Name:        dto.Name,
		Description: dto.Description,
		IsActive:    dto.IsActive,
	})
	if err != nil {
		writeTemplateError(w, err)
		return
	}
	if err := json.NewEncoder(w).Encode(toTemplateDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// DeleteTemplate godoc
// @Summary Delete a budget template
// @Description Refused for the current default template
// @Tags Template
// @Param templateId path int true "Template ID"
// @Success 204 "No Content"
// @Failure 404 {string} string "Template Not Found"
// @Failure 409 {string} string "Template is the default"
// @Router /api/template/{templateId} [delete]
// @Security XUserId
func (h *Handler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	templateId, err := strconv.Atoi(mux.Vars(r)["templateId"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.service.Delete(r.Context(), templateId); err != nil {
		writeTemplateError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetDefaultTemplate godoc
// @Summary Mark a template as the default
// @Tags Template
// @Param templateId path int true "Template ID"
// @Success 200 "OK"
// @Failure 404 {string} string "Template Not Found"
// @Router /api/template/{templateId}/default [put]
// @Security XUserId
func (h *Handler) SetDefaultTemplate(w http.ResponseWriter, r *http.Request) {
	templateId, err := strconv.Atoi(mux.Vars(r)["templateId"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.service.SetDefault(r.Context(), templateId); err != nil {
		writeTemplateError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// AddTemplateCategory godoc
// @Summary Add a category to a template
// @Tags Template
// @Accept json
// @Produce json
// @Param templateId path int true "Template ID"
// @Param category body TemplateCategoryDTO true "Template category"
// @Success 201 {object} TemplateCategoryDTO
// @Failure 400 {string} string "Bad Request"
// @Router /api/template/{templateId}/category [post]
// @Security XUserId
func (h *Handler) AddTemplateCategory(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	templateId, err := strconv.Atoi(mux.Vars(r)["templateId"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var dto TemplateCategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	created, err := h.service.AddCategory(r.Context(), fromCategoryDTO(dto, templateId))
	if err != nil {
		writeTemplateError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(toCategoryDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// UpdateTemplateCategory godoc
// @Summary Update a template category
// @Tags Template
// @Accept json
// @Produce json
// @Param templateId path int true "Template ID"
// @Param categoryId path int true "Template category ID"
// @Param category body TemplateCategoryDTO true "Template category"
// @Success 200 {object} TemplateCategoryDTO
// @Failure 404 {string} string "Template category Not Found"
// @Router /api/template/{templateId}/category/{categoryId} [put]
// @Security XUserId
func (h *Handler) UpdateTemplateCategory(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	vars := mux.Vars(r)
	templateId, err := strconv.Atoi(vars["templateId"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	categoryId, err := strconv.Atoi(vars["categoryId"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var dto TemplateCategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	tc := fromCategoryDTO(dto, templateId)
	tc.ID = categoryId
	updated, err := h.service.UpdateCategory(r.Context(), tc)
	if err != nil {
		writeTemplateError(w, err)
		return
	}
	if err := json.NewEncoder(w).Encode(toCategoryDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// DeleteTemplateCategory godoc
// @Summary Delete a template category
// @Tags Template
// @Param templateId path int true "Template ID"
// @Param categoryId path int true "Template category ID"
// @Success 204 "No Content"
// @Failure 404 {string} string "Template category Not Found"
// @Router /api/template/{templateId}/category/{categoryId} [delete]
// @Security XUserId
func (h *Handler) DeleteTemplateCategory(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	templateId, err := strconv.Atoi(vars["templateId"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	categoryId, err := strconv.Atoi(vars["categoryId"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.service.DeleteCategory(r.Context(), templateId, categoryId); err != nil {
		writeTemplateError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ApplyTemplate godoc
// @Summary Apply a template to the current household
// @Tags Template
// @Produce json
// @Param templateId path int true "Template ID"
// @Success 200 {object} ApplyResultDTO
// @Failure 404 {string} string "Template Not Found"
// @Router /api/template/{templateId}/apply [post]
// @Security XUserId
func (h *Handler) ApplyTemplate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	templateId, err := strconv.Atoi(mux.Vars(r)["templateId"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	t, err := h.service.Get(r.Context(), templateId)
	if err != nil {
		writeTemplateError(w, err)
		return
	}
	created, err := h.service.Apply(r.Context(), templateId)
	if err != nil {
		writeTemplateError(w, err)
		return
	}
	if err := json.NewEncoder(w).Encode(ApplyResultDTO{TemplateName: t.Name, CategoriesCreated: created}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// ApplyDefaultTemplate godoc
// @Summary Apply the default template to the current household
// @Description Falls back to the built-in starter set when no default template is configured
// @Tags Template
// @Produce json
// @Success 200 {object} ApplyResultDTO
// @Router /api/template/apply-default [post]
// @Security XUserId
func (h *Handler) ApplyDefaultTemplate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	name, created, err := h.service.ApplyDefault(r.Context())
	if err != nil {
		writeTemplateError(w, err)
		return
	}
	if err := json.NewEncoder(w).Encode(ApplyResultDTO{TemplateName: name, CategoriesCreated: created}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// ApplyBarebones godoc
// @Summary Zero the month's non-essential budgets
// @Tags Template
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month"
// @Success 200 {array} ChangeDTO
// @Failure 400 {string} string "Invalid period"
// @Router /api/template/barebones/{year}/{month} [post]
// @Security XUserId
func (h *Handler) ApplyBarebones(w http.ResponseWriter, r *http.Request) {
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
	changes, err := h.service.ApplyBarebones(r.Context(), year, month)
	if err != nil {
		writeTemplateError(w, err)
		return
	}
	dtos := make([]ChangeDTO, 0, len(changes))
	for _, c := range changes {
		dtos = append(dtos, ChangeDTO(c))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func writeTemplateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrTemplateNotFound), errors.Is(err, ErrTemplateCategoryNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrDefaultTemplateDelete):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, budget.ErrInvalidPeriod),
		errors.Is(err, category.ErrNestedSubcategory),
		errors.Is(err, category.ErrParentTypeMismatch):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func toTemplateDTO(t BudgetTemplate) TemplateDTO {
	dto := TemplateDTO{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		IsDefault:   t.IsDefault,
		IsActive:    t.IsActive,
	}
	for _, tc := range t.Categories {
		dto.Categories = append(dto.Categories, toCategoryDTO(tc))
	}
	return dto
}

func toCategoryDTO(tc TemplateCategory) TemplateCategoryDTO {
	return TemplateCategoryDTO{
		ID:           tc.ID,
		Name:         tc.Name,
		Type:         string(tc.Type),
		ParentID:     tc.ParentID,
		IsPersistent: tc.IsPersistent,
		PaymentType:  string(tc.PaymentType),
		IsEssential:  tc.IsEssential,
		DisplayOrder: tc.DisplayOrder,
	}
}

func fromCategoryDTO(dto TemplateCategoryDTO, templateId int) TemplateCategory {
	return TemplateCategory{
		TemplateID:   templateId,
		Name:         dto.Name,
		Type:         category.CategoryType(dto.Type),
		ParentID:     dto.ParentID,
		IsPersistent: dto.IsPersistent,
		PaymentType:  category.PaymentType(dto.PaymentType),
		IsEssential:  dto.IsEssential,
		DisplayOrder: dto.DisplayOrder,
	}
}
