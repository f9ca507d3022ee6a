// Package validate holds shared request-field validation rules.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Username must be lowercase letters, digits, underscore, 3-20 chars.
var usernameRx = regexp.MustCompile(`^[a-z0-9_]{3,20}$`)

// Username validates an account name against the unique-username rules.
func Username(v string) error {
	if v == "" {
		return fmt.Errorf("username is required")
	}
	if !usernameRx.MatchString(v) {
		return fmt.Errorf("username must match %s", usernameRx.String())
	}
	return nil
}

// ContentID validates an opaque content id (uuid form).
func ContentID(v string) error {
	if v == "" {
		return fmt.Errorf("content id is required")
	}
	if _, err := uuid.Parse(v); err != nil {
		return fmt.Errorf("invalid content id")
	}
	return nil
}

// Query validates a search query: non-empty after trimming.
func Query(v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("query cannot be empty")
	}
	return nil
}

// ContentType validates the item type field.
func ContentType(v string) error {
	if v == "" {
		return fmt.Errorf("type is required")
	}
	if len(v) > 30 {
		return fmt.Errorf("type exceeds 30 characters")
	}
	return nil
}

// Title bounds the title length; titles may be empty on url-type items since
// scraping backfills them.
func Title(v string) error {
	if len(v) > 300 {
		return fmt.Errorf("title exceeds 300 characters")
	}
	return nil
}

// Link validates an optional link field when present.
func Link(v *string) error {
	if v == nil || *v == "" {
		return nil
	}
	if !strings.HasPrefix(*v, "http://") && !strings.HasPrefix(*v, "https://") {
		return fmt.Errorf("link must be an absolute http(s) URL")
	}
	return nil
}
