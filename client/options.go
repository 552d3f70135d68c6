package client

import (
	"time"

	"github.com/txix-open/isp-kit/log"
	"znuny-client/endpoint"
	"znuny-client/session"
	"znuny-client/transport"
)

type options struct {
	transport   transport.RoundTripper
	baseUrl     string
	timeout     time.Duration
	headers     map[string]string
	registry    *endpoint.Registry
	username    string
	password    string
	login       bool
	middlewares []transport.Middleware
	logger      log.Logger
	store       session.Store
}

type Option func(o *options)

// WithTransport uses rt instead of building an http transport.
// If rt implements io.Closer it is closed together with the client.
func WithTransport(rt transport.RoundTripper) Option {
	return func(o *options) {
		o.transport = rt
	}
}

func WithBaseUrl(baseUrl string) Option {
	return func(o *options) {
		o.baseUrl = baseUrl
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

func WithHeaders(headers map[string]string) Option {
	return func(o *options) {
		o.headers = headers
	}
}

// WithRegistry shares registry with the client. Default endpoints are added only for missing names.
func WithRegistry(registry *endpoint.Registry) Option {
	return func(o *options) {
		o.registry = registry
	}
}

// WithCredentials makes New log in right away.
func WithCredentials(username string, password string) Option {
	return func(o *options) {
		o.username = username
		o.password = password
		o.login = true
	}
}

func WithMiddlewares(middlewares ...transport.Middleware) Option {
	return func(o *options) {
		o.middlewares = append(o.middlewares, middlewares...)
	}
}

// WithLogger enables request logging and session lifecycle records.
func WithLogger(logger log.Logger, enableBodyLogging bool, unescapeUnicode bool) Option {
	return func(o *options) {
		o.logger = logger
		o.middlewares = append(o.middlewares,
			transport.RequestId(),
			transport.Logger(logger, enableBodyLogging, unescapeUnicode),
		)
	}
}

func WithSessionStore(store session.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

type requestOptions struct {
	method     string
	path       string
	pathParams map[string]any
	body       any
	query      map[string]any
	headers    map[string]string
}

type RequestOption func(o *requestOptions)

// Method overrides the registered method of the operation.
func Method(method string) RequestOption {
	return func(o *requestOptions) {
		o.method = method
	}
}

// Path overrides the registered path. The value is sent as is, without the registry base path.
func Path(path string) RequestOption {
	return func(o *requestOptions) {
		o.path = path
	}
}

func PathParams(params map[string]any) RequestOption {
	return func(o *requestOptions) {
		o.pathParams = params
	}
}

func JsonBody(body any) RequestOption {
	return func(o *requestOptions) {
		o.body = body
	}
}

func Query(params map[string]any) RequestOption {
	return func(o *requestOptions) {
		o.query = params
	}
}

func Header(key string, value string) RequestOption {
	return func(o *requestOptions) {
		if o.headers == nil {
			o.headers = make(map[string]string)
		}
		o.headers[key] = value
	}
}
