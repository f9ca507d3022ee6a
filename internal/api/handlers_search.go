package api

import (
	"encoding/json"
	"net/http"

	"github.com/brainvault/brainvault/internal/api/respond"
	"github.com/brainvault/brainvault/internal/api/validate"
	"github.com/brainvault/brainvault/internal/auth"
	"github.com/brainvault/brainvault/internal/services"
)

// SearchHandler is the HTTP transport for semantic search.
type SearchHandler struct {
	svc *services.SearchService
}

func NewSearchHandler(svc *services.SearchService) *SearchHandler {
	return &SearchHandler{svc: svc}
}

// HandleSearch POST /api/search
func (h *SearchHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		respond.WriteUnauthorized(w, "not authenticated")
		return
	}

	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.Query(req.Query); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	res, err := h.svc.Search(r.Context(), user.UserID, req.Query)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":         "Search completed",
		"answer":          res.Answer,
		"relevantContent": res.RelevantContent,
	})
}
