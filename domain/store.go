package domain

import (
	"time"

	"github.com/pkg/errors"
)

var (
	ErrSessionNotFound = errors.New("session not found in store")
)

type StoredSession struct {
	UserLogin string    `json:"UserLogin"`
	SessionID string    `json:"SessionID"`
	CreatedAt time.Time `json:"CreatedAt"`
}
