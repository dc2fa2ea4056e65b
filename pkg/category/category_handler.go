package category

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type CategoryDTO struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	ParentID     int    `json:"parentId,omitempty"`
	IsPersistent bool   `json:"isPersistent"`
	PaymentType  string `json:"paymentType"`
	IsEssential  bool   `json:"isEssential"`
}

type NodeDTO struct {
	CategoryDTO
	Children []CategoryDTO `json:"children,omitempty"`
}

type NoteDTO struct {
	ID          int       `json:"id"`
	AuthorEmail string    `json:"authorEmail,omitempty"`
	Note        string    `json:"note"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// ListCategories godoc
// @Summary List the household's category tree
// @Tags Category
// @Produce json
// @Success 200 {array} NodeDTO
// @Failure 403 {string} string "Household not found"
// @Router /api/category [get]
// @Security XUserId
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing categories")
	w.Header().Set("Content-Type", "application/json")
	tree, err := h.service.Tree(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	dtos := make([]NodeDTO, 0, len(tree))
	for _, node := range tree {
		dto := NodeDTO{CategoryDTO: toDTO(node.Category)}
		for _, child := range node.Children {
			dto.Children = append(dto.Children, toDTO(child))
		}
		dtos = append(dtos, dto)
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// CreateCategory godoc
// @Summary Create a category
// @Tags Category
// @Accept json
// @Produce json
// @Param category body CategoryDTO true "Category"
// @Success 201 {object} CategoryDTO
// @Failure 400 {string} string "Bad Request"
// @Failure 403 {string} string "Household not found"
// @Router /api/category [post]
// @Security XUserId
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new category")
	w.Header().Set("Content-Type", "application/json")
	var dto CategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	created, err := h.service.Create(r.Context(), fromDTO(dto))
	if err != nil {
		writeCategoryError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(toDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// UpdateCategory godoc
// @Summary Update a category
// @Tags Category
// @Accept json
// @Produce json
// @Param categoryId path int true "Category ID"
// @Param category body CategoryDTO true "Category"
// @Success 200 {object} CategoryDTO
// @Failure 400 {string} string "Bad Request"
// @Failure 404 {string} string "Category Not Found"
// @Router /api/category/{categoryId} [put]
// @Security XUserId
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	categoryId, err := pathInt(r, "categoryId")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var dto CategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if dto.ID == 0 || dto.ID != categoryId {
		http.Error(w, "Invalid category id in request body", http.StatusBadRequest)
		return
	}
	updated, err := h.service.Update(r.Context(), fromDTO(dto))
	if err != nil {
		writeCategoryError(w, err)
		return
	}
	if err := json.NewEncoder(w).Encode(toDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// MoveCategory godoc
// @Summary Move a sub-category to another parent
// @Tags Category
// @Accept json
// @Param categoryId path int true "Category ID"
// @Param move body object{newParentId=int} true "Move target"
// @Success 200 "OK"
// @Failure 400 {string} string "Bad Request"
// @Failure 404 {string} string "Category Not Found"
// @Router /api/category/{categoryId}/parent [put]
// @Security XUserId
func (h *Handler) MoveCategory(w http.ResponseWriter, r *http.Request) {
	categoryId, err := pathInt(r, "categoryId")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var moveDTO struct {
		NewParentId int `json:"newParentId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&moveDTO); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.service.Move(r.Context(), categoryId, moveDTO.NewParentId); err != nil {
		writeCategoryError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// BulkAddCategories godoc
// @Summary Add several sub-categories under one parent
// @Description Creates a sub-category per line of the names field, inheriting the parent's type
// @Tags Category
// @Accept json
// @Produce json
// @Param categoryId path int true "Parent Category ID"
// @Param bulk body object{names=string,isPersistent=bool,paymentType=string} true "Sub-categories"
// @Success 201 {object} object{created=int}
// @Failure 400 {string} string "Bad Request"
// @Router /api/category/{categoryId}/children [post]
// @Security XUserId
func (h *Handler) BulkAddCategories(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	parentId, err := pathInt(r, "categoryId")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var bulkDTO struct {
		Names        string `json:"names"`
		IsPersistent bool   `json:"isPersistent"`
		PaymentType  string `json:"paymentType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&bulkDTO); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	created, err := h.service.BulkAddChildren(r.Context(), parentId,
		strings.Split(bulkDTO.Names, "\n"), bulkDTO.IsPersistent, PaymentType(bulkDTO.PaymentType))
	if err != nil {
		writeCategoryError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(map[string]int{"created": created}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// DeleteCategory godoc
// @Summary Delete a category
// @Description Refused while budgets still reference the category
// @Tags Category
// @Param categoryId path int true "Category ID"
// @Success 204 "No Content"
// @Failure 404 {string} string "Category Not Found"
// @Failure 409 {string} string "Category has budgets"
// @Router /api/category/{categoryId} [delete]
// @Security XUserId
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	categoryId, err := pathInt(r, "categoryId")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.service.Delete(r.Context(), categoryId); err != nil {
		writeCategoryError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearAllCategories godoc
// @Summary Delete all categories of the household
// @Tags Category
// @Produce json
// @Success 200 {object} object{deleted=int}
// @Router /api/category [delete]
// @Security XUserId
func (h *Handler) ClearAllCategories(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	deleted, err := h.service.ClearAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(map[string]int{"deleted": deleted}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// ListNotes godoc
// @Summary List notes of a category
// @Tags CategoryNote
// @Produce json
// @Param categoryId path int true "Category ID"
// @Success 200 {array} NoteDTO
// @Router /api/category/{categoryId}/note [get]
// @Security XUserId
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	categoryId, err := pathInt(r, "categoryId")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	notes, err := h.service.ListNotes(r.Context(), categoryId)
	if err != nil {
		writeCategoryError(w, err)
		return
	}
	dtos := make([]NoteDTO, 0, len(notes))
	for _, n := range notes {
		dtos = append(dtos, NoteDTO{ID: n.ID, AuthorEmail: n.AuthorEmail, Note: n.Note, CreatedAt: n.CreatedAt})
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// AddNote godoc
// @Summary Add a note to a category
// @Tags CategoryNote
// @Accept json
// @Produce json
// @Param categoryId path int true "Category ID"
// @Param note body object{note=string} true "Note"
// @Success 201 {object} NoteDTO
// @Router /api/category/{categoryId}/note [post]
// @Security XUserId
func (h *Handler) AddNote(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	categoryId, err := pathInt(r, "categoryId")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var noteDTO struct {
		Note string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&noteDTO); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	created, err := h.service.AddNote(r.Context(), categoryId, noteDTO.Note)
	if err != nil {
		writeCategoryError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(NoteDTO{ID: created.ID, AuthorEmail: created.AuthorEmail, Note: created.Note, CreatedAt: created.CreatedAt}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// DeleteNote godoc
// @Summary Delete a category note
// @Tags CategoryNote
// @Param noteId path int true "Note ID"
// @Success 204 "No Content"
// @Failure 404 {string} string "Note Not Found"
// @Router /api/category/note/{noteId} [delete]
// @Security XUserId
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	noteId, err := pathInt(r, "noteId")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	deleted, err := h.service.DeleteNote(r.Context(), noteId)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, "note not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeCategoryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrCategoryNotFound), errors.Is(err, ErrNoteNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrCategoryInUse):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrNestedSubcategory), errors.Is(err, ErrParentTypeMismatch), errors.Is(err, ErrNotSubcategory):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func toDTO(c Category) CategoryDTO {
	return CategoryDTO{
		ID:           c.ID,
		Name:         c.Name,
		Type:         string(c.Type),
		ParentID:     c.ParentID,
		IsPersistent: c.IsPersistent,
		PaymentType:  string(c.PaymentType),
		IsEssential:  c.IsEssential,
	}
}

func fromDTO(dto CategoryDTO) Category {
	return Category{
		ID:           dto.ID,
		Name:         dto.Name,
		Type:         CategoryType(dto.Type),
		ParentID:     dto.ParentID,
		IsPersistent: dto.IsPersistent,
		PaymentType:  PaymentType(dto.PaymentType),
		IsEssential:  dto.IsEssential,
	}
}

func pathInt(r *http.Request, name string) (int, error) {
	return strconv.Atoi(mux.Vars(r)[name])
}
