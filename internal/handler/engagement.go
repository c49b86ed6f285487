package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"driftline/internal/httputil"
	"driftline/internal/model"
	"driftline/internal/service"
	"driftline/internal/transport/http/middleware"
)

type EngagementHandler struct {
	engagementService *service.EngagementService
}

func NewEngagementHandler(engagementService *service.EngagementService) *EngagementHandler {
	return &EngagementHandler{
		engagementService: engagementService,
	}
}

// Like records a like on a post or comment
// POST /likes
func (h *EngagementHandler) Like(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.CreateLikeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	like, err := h.engagementService.Like(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidTargetKind), errors.Is(err, model.ErrInvalidTargetID):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrTargetNotFound):
			httputil.WriteNotFound(w, "Target not found")
		case errors.Is(err, model.ErrAlreadyLiked):
			httputil.WriteConflict(w, "Target already liked")
		default:
			log.Printf("[ERROR] Like handler: %v", err)
			httputil.WriteInternalError(w, "Failed to like")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, like)
}

// Unlike removes a like by id
// DELETE /likes/{id}
func (h *EngagementHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	likeID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid like ID")
		return
	}

	if err := h.engagementService.Unlike(r.Context(), userID, likeID); err != nil {
		switch {
		case errors.Is(err, model.ErrLikeNotFound):
			httputil.WriteNotFound(w, "Like not found")
		case errors.Is(err, model.ErrNotLikeOwner):
			httputil.WriteForbidden(w, "You can only remove your own likes")
		default:
			log.Printf("[ERROR] Unlike handler: %v", err)
			httputil.WriteInternalError(w, "Failed to unlike")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Like removed",
	})
}
