package interaction

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

func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	h.handleLike(w, r, false)
}

func (h *Handler) SuperLike(w http.ResponseWriter, r *http.Request) {
	h.handleLike(w, r, true)
}

func (h *Handler) handleLike(w http.ResponseWriter, r *http.Request, super bool) {
	var req LikeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	isSuper := super || req.IsSuper
	result, err := h.service.Like(r.Context(), req.SenderID, req.ReceiverID, isSuper)
	if err != nil {
		if errors.Is(err, ErrSelfInteraction) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to record like")
		return
	}

	if isSuper {
		utils.RespondWithJSON(w, http.StatusOK, struct {
			*LikeResult
			IsSuper bool `json:"isSuper"`
		}{result, true})
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, result)
}

func (h *Handler) Pass(w http.ResponseWriter, r *http.Request) {
	var req PassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.Pass(r.Context(), req.SenderID, req.TargetID); err != nil {
		if errors.Is(err, ErrSelfInteraction) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to record pass")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) GetIncomingLikes(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "userId is required")
		return
	}

	likes, err := h.service.GetIncomingLikes(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get likes")
		return
	}

	if likes == nil {
		likes = []*Like{}
	}
	utils.RespondWithJSON(w, http.StatusOK, likes)
}

func (h *Handler) RespondToLike(w http.ResponseWriter, r *http.Request) {
	likeID := chi.URLParam(r, "id")

	var req RespondToLikeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.RespondToLike(r.Context(), likeID, req.UserID, req.Accept)
	if err != nil {
		if errors.Is(err, ErrLikeNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to respond to like")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, result)
}

func (h *Handler) GetMatches(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "userId is required")
		return
	}

	matches, err := h.service.GetMatches(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get matches")
		return
	}

	if matches == nil {
		matches = []*MatchView{}
	}
	utils.RespondWithJSON(w, http.StatusOK, matches)
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	matchID := chi.URLParam(r, "id")

	match, err := h.service.GetMatch(r.Context(), matchID)
	if err != nil {
		if errors.Is(err, ErrMatchNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get match")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, match)
}

func (h *Handler) Unmatch(w http.ResponseWriter, r *http.Request) {
	matchID := chi.URLParam(r, "id")

	if err := h.service.Unmatch(r.Context(), matchID); err != nil {
		if errors.Is(err, ErrMatchNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to unmatch")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}
