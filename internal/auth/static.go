package auth

import (
	"context"
	"errors"
	"sync"
)

// StaticAuthorizer maps fixed API keys to users. It stands in for the
// external identity provider in local development and tests.
type StaticAuthorizer struct {
	mu   sync.RWMutex
	keys map[string]UserInfo
}

// NewStaticAuthorizer creates an authorizer with no registered keys.
func NewStaticAuthorizer() *StaticAuthorizer {
	return &StaticAuthorizer{keys: make(map[string]UserInfo)}
}

// Register associates an API key with a user.
func (a *StaticAuthorizer) Register(apiKey string, info UserInfo) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.keys[apiKey] = info
}

// Authorize resolves a registered key to its user.
func (a *StaticAuthorizer) Authorize(ctx context.Context, apiKey string) (*UserInfo, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	info, ok := a.keys[apiKey]
	if !ok {
		return nil, errors.New("invalid API key")
	}
	return &info, nil
}
