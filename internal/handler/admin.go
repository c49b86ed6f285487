package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"driftline/internal/httputil"
	"driftline/internal/model"
	"driftline/internal/service"
)

// AdminHandler exposes counter reconciliation. Recounting is for repair
// after out-of-band data changes; the normal write path never needs it.
type AdminHandler struct {
	counterService *service.CounterService
}

func NewAdminHandler(counterService *service.CounterService) *AdminHandler {
	return &AdminHandler{
		counterService: counterService,
	}
}

type recountRequest struct {
	TargetKind model.TargetKind `json:"target_kind"`
	TargetID   int64            `json:"target_id"`
	Async      bool             `json:"async"`
}

// Recount rebuilds a target's counters, synchronously or via the worker
// queue when async is set
// POST /admin/recount
func (h *AdminHandler) Recount(w http.ResponseWriter, r *http.Request) {
	var req recountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	target := model.TargetRef{Kind: req.TargetKind, ID: req.TargetID}

	if req.Async {
		if err := h.counterService.RequestRecount(r.Context(), target); err != nil {
			h.writeRecountError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusAccepted, map[string]string{
			"message": "Recount enqueued",
		})
		return
	}

	counters, err := h.counterService.RecountFor(r.Context(), target)
	if err != nil {
		h.writeRecountError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, counters)
}

func (h *AdminHandler) writeRecountError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidTargetKind), errors.Is(err, model.ErrInvalidTargetID):
		httputil.WriteBadRequest(w, err.Error())
	case errors.Is(err, model.ErrTargetNotFound):
		httputil.WriteNotFound(w, "Target not found")
	default:
		log.Printf("[ERROR] Recount handler: %v", err)
		httputil.WriteInternalError(w, "Failed to recount")
	}
}
