package handler

import (
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

type FollowHandler struct {
	followService *service.FollowService
}

func NewFollowHandler(followService *service.FollowService) *FollowHandler {
	return &FollowHandler{
		followService: followService,
	}
}

// Follow creates a follow edge toward the user in the path. The outcome
// is always reported in the body; only unknown users are an error.
// POST /users/{id}/follow
func (h *FollowHandler) Follow(w http.ResponseWriter, r *http.Request) {
	followerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	followedID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	result, err := h.followService.Follow(r.Context(), followerID, followedID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		log.Printf("[ERROR] Follow handler: %v", err)
		httputil.WriteInternalError(w, "Failed to follow user")
		return
	}

	status := http.StatusOK
	if result == model.FollowCreated {
		status = http.StatusCreated
	}
	httputil.WriteJSON(w, status, map[string]model.FollowResult{
		"result": result,
	})
}

// Unfollow removes a follow edge. Unfollowing someone never followed is a
// reported outcome, not an error.
// DELETE /users/{id}/follow
func (h *FollowHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	followerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	followedID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	result, err := h.followService.Unfollow(r.Context(), followerID, followedID)
	if err != nil {
		log.Printf("[ERROR] Unfollow handler: %v", err)
		httputil.WriteInternalError(w, "Failed to unfollow user")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]model.UnfollowResult{
		"result": result,
	})
}

// IsFollowing reports whether the authenticated user follows the user in
// the path
// GET /users/{id}/follow
func (h *FollowHandler) IsFollowing(w http.ResponseWriter, r *http.Request) {
	followerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	followedID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	following, err := h.followService.IsFollowing(r.Context(), followerID, followedID)
	if err != nil {
		log.Printf("[ERROR] IsFollowing handler: %v", err)
		httputil.WriteInternalError(w, "Failed to check follow state")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]bool{
		"following": following,
	})
}

// GetFollowers lists the ids of users following the user in the path
// GET /users/{id}/followers
func (h *FollowHandler) GetFollowers(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	ids, err := h.followService.FollowerIDs(r.Context(), userID)
	if err != nil {
		log.Printf("[ERROR] GetFollowers handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch followers")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user_ids": ids,
	})
}

// GetFollowing lists the ids of users the user in the path follows
// GET /users/{id}/following
func (h *FollowHandler) GetFollowing(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	ids, err := h.followService.FollowingIDs(r.Context(), userID)
	if err != nil {
		log.Printf("[ERROR] GetFollowing handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch following")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user_ids": ids,
	})
}
