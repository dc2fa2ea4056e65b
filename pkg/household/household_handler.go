package household

import (
	"encoding/json"
	"net/http"
)

type HouseholdDTO struct {
	Uid  string `json:"uid"`
	Name string `json:"name"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// CurrentHousehold godoc
// @Summary Get the current user's household
// @Tags Household
// @Produce json
// @Success 200 {object} HouseholdDTO
// @Failure 403 {string} string "Household not found"
// @Router /api/household/current [get]
// @Security XUserId
func (h *Handler) CurrentHousehold(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	current, err := h.service.Current(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	if err := json.NewEncoder(w).Encode(HouseholdDTO{Uid: current.Uid, Name: current.Name}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}
