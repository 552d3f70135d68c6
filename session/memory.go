package session

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/txix-open/isp-kit/json"
	"znuny-client/cache"
	"znuny-client/domain"
)

type Memory struct {
	cache    *cache.Cache
	duration time.Duration
}

// NewMemory keeps sessions in process for duration; a non-positive duration keeps them forever.
// Expired sessions are dropped on every Save.
func NewMemory(duration time.Duration) Memory {
	return Memory{
		cache:    cache.New(),
		duration: duration,
	}
}

func (s Memory) Load(ctx context.Context, userLogin string) (*domain.StoredSession, error) {
	data, ok := s.cache.Get(key("", userLogin))
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	result := domain.StoredSession{}
	err := json.Unmarshal([]byte(data), &result)
	if err != nil {
		return nil, errors.WithMessage(err, "json unmarshal session")
	}
	return &result, nil
}

func (s Memory) Save(ctx context.Context, session domain.StoredSession) error {
	value, err := json.Marshal(session)
	if err != nil {
		return errors.WithMessage(err, "json marshal session")
	}
	s.cache.Purge()
	s.cache.Set(key("", session.UserLogin), string(value), s.duration)
	return nil
}

func (s Memory) Delete(ctx context.Context, userLogin string) error {
	s.cache.Delete(key("", userLogin))
	return nil
}
