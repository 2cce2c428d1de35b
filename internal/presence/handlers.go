package presence

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lovematch/backend/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) SetOnline(w http.ResponseWriter, r *http.Request) {
	h.setPresence(w, r, true)
}

func (h *Handler) SetOffline(w http.ResponseWriter, r *http.Request) {
	h.setPresence(w, r, false)
}

func (h *Handler) setPresence(w http.ResponseWriter, r *http.Request, online bool) {
	var req PresenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var (
		p   *Presence
		err error
	)
	if online {
		p, err = h.service.SetOnline(r.Context(), req.UserID)
	} else {
		p, err = h.service.SetOffline(r.Context(), req.UserID)
	}

	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update presence")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, p)
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	status, err := h.service.GetStatus(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get status")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, status)
}
