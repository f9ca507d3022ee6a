package api

import (
	"github.com/gorilla/mux"

	"github.com/brainvault/brainvault/internal/api/recovery"
	"github.com/brainvault/brainvault/internal/auth"
	"github.com/brainvault/brainvault/internal/services"
)

// Deps carries the service layer consumed by the router.
type Deps struct {
	Authorizer auth.Authorizer
	Users      *services.UserService
	Content    *services.ContentService
	Search     *services.SearchService
	Share      *services.ShareService
}

// NewRouter wires all HTTP routes. Health and shared-brain resolution are
// public; everything else sits behind the auth middleware.
func NewRouter(d Deps) *mux.Router {
	root := mux.NewRouter()
	root.Use(recovery.Middleware)

	healthHandler := NewHealthHandler()
	root.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")

	shareHandler := NewShareHandler(d.Share)
	root.HandleFunc("/api/brain/{shareLink}", shareHandler.GetSharedBrain).Methods("GET")

	authed := root.PathPrefix("/api").Subrouter()
	authed.Use(auth.Middleware(d.Authorizer))

	userHandler := NewUserHandler(d.Users)
	authed.HandleFunc("/users", userHandler.CreateUser).Methods("POST")
	authed.HandleFunc("/users/{userId}", userHandler.GetUser).Methods("GET")

	contentHandler := NewContentHandler(d.Content)
	authed.HandleFunc("/content", contentHandler.AddContent).Methods("POST")
	authed.HandleFunc("/content", contentHandler.ListContent).Methods("GET")
	authed.HandleFunc("/content/{contentId}", contentHandler.DeleteContent).Methods("DELETE")

	searchHandler := NewSearchHandler(d.Search)
	authed.HandleFunc("/search", searchHandler.HandleSearch).Methods("POST")

	authed.HandleFunc("/brain/share", shareHandler.UpdateSharing).Methods("POST")

	return root
}
