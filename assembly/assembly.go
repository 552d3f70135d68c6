package assembly

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/txix-open/isp-kit/log"
	"znuny-client/client"
	"znuny-client/conf"
)

var (
	ErrLoggerRequired = errors.New("logger is required")
)

// Assembly owns the shared infrastructure built from conf.Client and produces configured clients.
type Assembly struct {
	cfg      conf.Client
	logger   log.Logger
	redisCli redis.UniversalClient
}

func New(cfg conf.Client, logger log.Logger) (*Assembly, error) {
	if logger == nil {
		return nil, ErrLoggerRequired
	}
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	var redisCli redis.UniversalClient
	if cfg.Redis != nil {
		redisCli = redisClient(*cfg.Redis)
	}
	return &Assembly{
		cfg:      cfg,
		logger:   logger,
		redisCli: redisCli,
	}, nil
}

// Client builds a client, applies endpoint overrides and authenticates it.
// A session saved in redis for the configured user is reused instead of a new login.
func (a *Assembly) Client(ctx context.Context) (*client.Client, error) {
	locator := NewLocator(a.logger, a.redisCli)
	cli, err := client.New(ctx, locator.Options(a.cfg)...)
	if err != nil {
		return nil, errors.WithMessage(err, "new client")
	}

	err = locator.ApplyEndpoints(cli, a.cfg.Endpoints)
	if err != nil {
		_ = cli.Close()
		return nil, errors.WithMessage(err, "apply endpoints")
	}

	a.logger.Debug(ctx, "znuny client configured", log.Any("operations", cli.Endpoints().Names()))

	if a.cfg.Username == "" {
		return cli, nil
	}
	if a.redisCli != nil {
		resumed, err := cli.ResumeSession(ctx, a.cfg.Username)
		if err != nil {
			a.logger.Error(ctx, errors.WithMessage(err, "resume session"))
		}
		if resumed {
			return cli, nil
		}
	}
	err = cli.Login(ctx, a.cfg.Username, a.cfg.Password)
	if err != nil {
		_ = cli.Close()
		return nil, errors.WithMessage(err, "login")
	}
	return cli, nil
}

func (a *Assembly) Close() error {
	if a.redisCli == nil {
		return nil
	}
	err := a.redisCli.Close()
	if err != nil {
		return errors.WithMessage(err, "close redis client")
	}
	return nil
}

func redisClient(config conf.Redis) redis.UniversalClient {
	return redis.NewClient(&redis.Options{
		Addr:     config.Address,
		Username: config.Username,
		Password: config.Password,
		DB:       config.Db,
	})
}
