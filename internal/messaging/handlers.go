package messaging

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

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	matchID := chi.URLParam(r, "matchId")

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	msg, err := h.service.Send(r.Context(), matchID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrMatchNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, ErrEmptyMessage), errors.Is(err, ErrSenderNotInMatch):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to send message")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, msg)
}

func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	matchID := chi.URLParam(r, "matchId")
	userID := r.URL.Query().Get("userId")

	messages, err := h.service.List(r.Context(), matchID, userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get messages")
		return
	}

	if messages == nil {
		messages = []*Message{}
	}
	utils.RespondWithJSON(w, http.StatusOK, messages)
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	var req MarkReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	n, err := h.service.MarkRead(r.Context(), req.UserID, req.MessageIDs)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to mark messages read")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"updated": n,
	})
}
