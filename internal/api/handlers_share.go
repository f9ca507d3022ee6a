package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/brainvault/brainvault/internal/api/respond"
	"github.com/brainvault/brainvault/internal/auth"
	"github.com/brainvault/brainvault/internal/model"
	"github.com/brainvault/brainvault/internal/services"
)

// ShareHandler manages public share links for a user's brain.
type ShareHandler struct {
	svc *services.ShareService
}

func NewShareHandler(svc *services.ShareService) *ShareHandler {
	return &ShareHandler{svc: svc}
}

// UpdateSharing POST /api/brain/share
func (h *ShareHandler) UpdateSharing(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		respond.WriteUnauthorized(w, "not authenticated")
		return
	}

	var req struct {
		Share bool `json:"share"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}

	if !req.Share {
		if err := h.svc.Disable(r.Context(), user.UserID); err != nil {
			writeServiceError(w, err)
			return
		}
		respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"message": "Sharing disabled"})
		return
	}

	hash, err := h.svc.Enable(r.Context(), user.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"hash": hash})
}

// GetSharedBrain GET /api/brain/{shareLink}. Public: no auth middleware.
// An unknown or revoked hash answers 411 so clients can tell a dead link
// from a server fault.
func (h *ShareHandler) GetSharedBrain(w http.ResponseWriter, r *http.Request) {
	hash := mux.Vars(r)["shareLink"]
	brain, err := h.svc.Resolve(r.Context(), hash)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			respond.WriteError(w, http.StatusLengthRequired, "share link not found")
			return
		}
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"username": brain.Username,
		"content":  brain.Content,
	})
}
