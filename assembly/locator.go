package assembly

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/txix-open/isp-kit/log"
	"znuny-client/client"
	"znuny-client/conf"
	"znuny-client/endpoint"
	"znuny-client/session"
	"znuny-client/transport"
)

type Locator struct {
	logger   log.Logger
	redisCli redis.UniversalClient
}

func NewLocator(logger log.Logger, redisCli redis.UniversalClient) Locator {
	return Locator{
		logger:   logger,
		redisCli: redisCli,
	}
}

func (l Locator) Options(cfg conf.Client) []client.Option {
	registry := endpoint.NewRegistry()
	registry.SetBasePath(cfg.BasePath)

	opts := []client.Option{
		client.WithBaseUrl(cfg.BaseUrl),
		client.WithTimeout(cfg.Timeout()),
		client.WithHeaders(cfg.Headers),
		client.WithRegistry(registry),
	}
	if cfg.Logging.RequestLogEnable {
		opts = append(opts, client.WithLogger(l.logger, cfg.Logging.BodyLogEnable, cfg.Logging.UnescapeUnicode))
	} else {
		opts = append(opts, client.WithMiddlewares(transport.RequestId()))
	}
	if l.redisCli != nil && cfg.Redis != nil {
		opts = append(opts, client.WithSessionStore(session.NewRedis(l.redisCli, cfg.Redis.Prefix, cfg.Redis.Ttl())))
	}
	return opts
}

// ApplyEndpoints rebinds operations. An empty method keeps the currently registered one.
func (l Locator) ApplyEndpoints(cli *client.Client, endpoints []conf.Endpoint) error {
	for _, e := range endpoints {
		method := strings.TrimSpace(e.Method)
		if method == "" {
			current, err := cli.Endpoints().MethodFor(e.Name)
			if err != nil {
				return errors.WithMessage(err, "method is required for a new operation")
			}
			method = current
		}
		_, err := cli.RegisterEndpoint(e.Name, method, strings.TrimRight(strings.TrimSpace(e.Path), "/"))
		if err != nil {
			return err
		}
		if e.Identifier != "" {
			cli.SetEndpointIdentifier(e.Name, e.Identifier)
		}
	}
	return nil
}
