// Package auth resolves bearer credentials to user identities. The identity
// provider itself (signup, password hashing, OAuth linking) is an external
// collaborator; this package only consumes its verification surface.
package auth

import "context"

// UserInfo describes the authenticated caller.
type UserInfo struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// Authorizer validates an API key and resolves it to a user in one call.
type Authorizer interface {
	Authorize(ctx context.Context, apiKey string) (*UserInfo, error)
}
