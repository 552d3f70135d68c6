package session

import (
	"context"
	"strings"

	"znuny-client/domain"
)

// Store keeps session ids between client instances, keyed by user login.
type Store interface {
	Load(ctx context.Context, userLogin string) (*domain.StoredSession, error)
	Save(ctx context.Context, session domain.StoredSession) error
	Delete(ctx context.Context, userLogin string) error
}

func key(prefix string, userLogin string) string {
	userLogin = strings.ToLower(strings.TrimSpace(userLogin))
	if prefix == "" {
		return userLogin
	}
	return prefix + "|" + userLogin
}
