package services

import (
	"errors"
	"strings"

	"journal-review-api/models"
)

// ErrNotWhitelisted rejects registration attempts from addresses outside
// the configured admin/reviewer whitelist.
var ErrNotWhitelisted = errors.New("access denied: only invited reviewers and administrators can register")

// RoleForEmail resolves the role a registering email is entitled to.
// Matching is case-insensitive and ignores surrounding whitespace; the
// admin address wins over the reviewer whitelist. Registration is a closed
// world: unknown addresses get an error, never a default role.
func RoleForEmail(email, adminEmail string, reviewerEmails []string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", ErrNotWhitelisted
	}

	if normalized == strings.ToLower(strings.TrimSpace(adminEmail)) && adminEmail != "" {
		return models.RoleAdmin, nil
	}

	for _, reviewer := range reviewerEmails {
		if normalized == strings.ToLower(strings.TrimSpace(reviewer)) {
			return models.RoleReviewer, nil
		}
	}

	return "", ErrNotWhitelisted
}
