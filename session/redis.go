package session

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/txix-open/isp-kit/json"
	"znuny-client/domain"
)

type Redis struct {
	cli      redis.UniversalClient
	prefix   string
	duration time.Duration
}

func NewRedis(cli redis.UniversalClient, prefix string, duration time.Duration) Redis {
	return Redis{
		cli:      cli,
		prefix:   prefix,
		duration: duration,
	}
}

func (s Redis) Load(ctx context.Context, userLogin string) (*domain.StoredSession, error) {
	data, err := s.cli.Get(ctx, key(s.prefix, userLogin)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, errors.WithMessage(err, "redis get")
	}

	result := domain.StoredSession{}
	err = json.Unmarshal(data, &result)
	if err != nil {
		return nil, errors.WithMessage(err, "json unmarshal session")
	}
	return &result, nil
}

func (s Redis) Save(ctx context.Context, session domain.StoredSession) error {
	value, err := json.Marshal(session)
	if err != nil {
		return errors.WithMessage(err, "json marshal session")
	}

	duration := s.duration
	if duration < 0 {
		duration = 0
	}
	err = s.cli.Set(ctx, key(s.prefix, session.UserLogin), value, duration).Err()
	if err != nil {
		return errors.WithMessage(err, "redis set")
	}
	return nil
}

func (s Redis) Delete(ctx context.Context, userLogin string) error {
	err := s.cli.Del(ctx, key(s.prefix, userLogin)).Err()
	if err != nil {
		return errors.WithMessage(err, "redis del")
	}
	return nil
}
