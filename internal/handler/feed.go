package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"driftline/internal/httputil"
	"driftline/internal/model"
	"driftline/internal/service"
	"driftline/internal/transport/http/middleware"
)

type FeedHandler struct {
	feedService *service.FeedService
}

func NewFeedHandler(feedService *service.FeedService) *FeedHandler {
	return &FeedHandler{
		feedService: feedService,
	}
}

// GetFeed returns one page of the viewer's feed
// GET /feed?strategy=publish_date|like_count|trending&page=1&include_self=true
func (h *FeedHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	strategy, err := model.ParseFeedStrategy(r.URL.Query().Get("strategy"))
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	page := 1
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		page, err = strconv.Atoi(pageStr)
		if err != nil {
			httputil.WriteBadRequest(w, "Invalid page number")
			return
		}
	}

	opts := service.FeedOptions{
		IncludeSelf: r.URL.Query().Get("include_self") == "true",
	}

	feedPage, err := h.feedService.ComposeFeed(r.Context(), viewerID, strategy, page, opts)
	if err != nil {
		if errors.Is(err, model.ErrInvalidFeedPage) {
			httputil.WriteBadRequest(w, err.Error())
			return
		}
		log.Printf("[ERROR] GetFeed handler: %v", err)
		httputil.WriteInternalError(w, "Failed to compose feed")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, feedPage)
}
