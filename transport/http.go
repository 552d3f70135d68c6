package transport

import (
	"context"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/txix-open/isp-kit/http/httpcli"
)

type HttpConfig struct {
	BaseUrl string
	// Timeout limits a single request; a non-positive value keeps the httpcli default.
	Timeout time.Duration
	Headers map[string]string
}

// Http sends requests relative to BaseUrl with isp-kit httpcli.
// Non-2xx statuses are reported as httpcli.ErrorResponse.
type Http struct {
	std    *http.Client
	cli    *httpcli.Client
	closed *atomic.Bool
}

func NewHttp(cfg HttpConfig) *Http {
	std := &http.Client{
		Transport: http.DefaultTransport.(*http.Transport).Clone(), // nolint:forcetypeassert
	}
	cli := httpcli.NewWithClient(std)

	global := cli.GlobalRequestConfig()
	global.BaseUrl = strings.TrimSpace(cfg.BaseUrl)
	if cfg.Timeout > 0 {
		global.Timeout = cfg.Timeout
	}
	global.Headers = make(map[string]string, len(cfg.Headers))
	for key, value := range cfg.Headers {
		global.Headers[key] = value
	}

	return &Http{
		std:    std,
		cli:    cli,
		closed: &atomic.Bool{},
	}
}

func (t *Http) RoundTrip(ctx context.Context, req *Request) (*Response, error) {
	if t.closed.Load() {
		return nil, ErrClosed
	}

	builder := t.cli.Get(req.Path).Method(req.Method)
	if isAbsolute(req.Path) {
		builder = builder.BaseUrl("")
	}
	for key, value := range req.Headers {
		builder = builder.Header(key, value)
	}
	if len(req.Query) > 0 {
		builder = builder.QueryParams(req.Query)
	}
	if req.Body != nil {
		builder = builder.JsonRequestBody(req.Body)
	}
	resp, err := builder.StatusCodeToError().Do(ctx)
	if err != nil {
		return nil, err
	}
	defer resp.Close()

	body, err := resp.BodyCopy()
	if err != nil {
		return nil, errors.WithMessage(err, "read response body")
	}
	return &Response{
		StatusCode: resp.StatusCode(),
		Body:       body,
		Url:        resp.Raw.Request.URL,
	}, nil
}

// Close releases idle connections. Requests issued after Close fail with ErrClosed.
func (t *Http) Close() error {
	if t.closed.Swap(true) {
		return nil
	}
	t.std.CloseIdleConnections()
	return nil
}

func isAbsolute(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}
