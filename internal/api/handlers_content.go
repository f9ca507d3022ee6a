package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/brainvault/brainvault/internal/api/respond"
	"github.com/brainvault/brainvault/internal/api/validate"
	"github.com/brainvault/brainvault/internal/auth"
	"github.com/brainvault/brainvault/internal/model"
	"github.com/brainvault/brainvault/internal/services"
)

// ContentHandler is the HTTP transport for content ingestion and listing.
type ContentHandler struct {
	svc *services.ContentService
}

func NewContentHandler(svc *services.ContentService) *ContentHandler {
	return &ContentHandler{svc: svc}
}

// AddContent POST /api/content
func (h *ContentHandler) AddContent(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		respond.WriteUnauthorized(w, "not authenticated")
		return
	}

	var req struct {
		Type    string  `json:"type"`
		Title   string  `json:"title"`
		Link    *string `json:"link"`
		Content string  `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.ContentType(req.Type); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := validate.Title(req.Title); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := validate.Link(req.Link); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	created, err := h.svc.Add(r.Context(), services.AddContentRequest{
		UserID:  user.UserID,
		Type:    req.Type,
		Title:   req.Title,
		Link:    req.Link,
		Content: req.Content,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Content added successfully",
		"contentId": created.ID,
		"imageUrl":  created.ImageURL,
	})
}

// ListContent GET /api/content
func (h *ContentHandler) ListContent(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		respond.WriteUnauthorized(w, "not authenticated")
		return
	}
	items, err := h.svc.List(r.Context(), user.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"content": items})
}

// DeleteContent DELETE /api/content/{contentId}
func (h *ContentHandler) DeleteContent(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		respond.WriteUnauthorized(w, "not authenticated")
		return
	}
	id := mux.Vars(r)["contentId"]
	if err := validate.ContentID(id); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := h.svc.Delete(r.Context(), user.UserID, id); err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"message": "Content deleted successfully"})
}

// writeServiceError maps service-layer errors onto the HTTP taxonomy.
// Upstream details stay in the server logs; clients get a generic message.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrValidation):
		respond.WriteBadRequest(w, err.Error())
	case errors.Is(err, model.ErrNotFound):
		respond.WriteNotFound(w, "not found")
	case errors.Is(err, model.ErrConflict):
		respond.WriteError(w, http.StatusConflict, "already exists")
	case model.IsUpstream(err):
		respond.WriteInternalError(w, "upstream dependency failed")
	default:
		respond.WriteInternalError(w, "internal error")
	}
}
