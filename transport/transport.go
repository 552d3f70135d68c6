package transport

import (
	"context"
	"net/url"

	"github.com/pkg/errors"
	"github.com/txix-open/isp-kit/http/httpcli"
)

var (
	ErrClosed = errors.New("transport is closed")
)

type Request struct {
	Method  string
	Path    string
	Headers map[string]string
	Query   map[string]any
	Body    any
}

type Response struct {
	StatusCode int
	Body       []byte
	// Url is the address the request was sent to; transports may leave it empty.
	Url *url.URL
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// CheckStatus reports a non-2xx response to req as httpcli.ErrorResponse.
func CheckStatus(req *Request, resp *Response) error {
	if resp.IsSuccess() {
		return nil
	}
	target := resp.Url
	if target == nil {
		target = &url.URL{Path: req.Path}
	}
	return httpcli.ErrorResponse{
		Url:        target,
		StatusCode: resp.StatusCode,
		Body:       resp.Body,
	}
}

type RoundTripper interface {
	RoundTrip(ctx context.Context, req *Request) (*Response, error)
}

type RoundTripperFunc func(ctx context.Context, req *Request) (*Response, error)

func (f RoundTripperFunc) RoundTrip(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

type Middleware func(next RoundTripper) RoundTripper

// nolint:ireturn
func Chain(root RoundTripper, middlewares ...Middleware) RoundTripper {
	for i := len(middlewares) - 1; i >= 0; i-- {
		root = middlewares[i](root)
	}
	return root
}
