package client

import (
	"bytes"
	"context"

	"github.com/pkg/errors"
	"github.com/txix-open/isp-kit/json"
	"znuny-client/domain"
	"znuny-client/endpoint"
	"znuny-client/transport"
)

type Response struct {
	StatusCode int
	Body       []byte
	Data       map[string]any
}

func (r *Response) Decode(v any) error {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return nil
	}
	return json.Unmarshal(r.Body, v)
}

// Request resolves the operation route, substitutes path params and sends the call.
// Non-2xx statuses are returned as the transport reports them.
// A truthy Error field in a successful body is returned as *domain.ApiError.
func (c *Client) Request(ctx context.Context, name string, opts ...RequestOption) (*Response, error) {
	if c.closed {
		return nil, transport.ErrClosed
	}

	o := &requestOptions{}
	for _, opt := range opts {
		opt(o)
	}

	method, err := c.resolveMethod(name, o.method)
	if err != nil {
		return nil, err
	}
	path := o.path
	if path == "" {
		path, err = c.registry.PathFor(name)
		if err != nil {
			return nil, err
		}
	}
	if len(o.pathParams) > 0 {
		path, err = endpoint.Substitute(path, o.pathParams)
		if err != nil {
			return nil, errors.WithMessagef(err, "endpoint %s", name)
		}
	}

	req := &transport.Request{
		Method:  method,
		Path:    path,
		Headers: o.headers,
		Query:   o.query,
		Body:    o.body,
	}
	resp, err := c.rt.RoundTrip(ctx, req)
	if err != nil {
		return nil, err
	}
	err = transport.CheckStatus(req, resp)
	if err != nil {
		return nil, err
	}

	data, err := decodeObject(resp.Body)
	if err != nil {
		return nil, errors.WithMessagef(err, "endpoint %s", name)
	}
	apiErr, ok := data[domain.ErrorField]
	if ok && domain.IsTruthy(apiErr) {
		return nil, domain.NewApiError(apiErr)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       resp.Body,
		Data:       data,
	}, nil
}

func (c *Client) resolveMethod(name string, override string) (string, error) {
	if override == "" {
		return c.registry.MethodFor(name)
	}
	method, err := endpoint.NormalizeMethod(override)
	if err != nil {
		return "", errors.WithMessagef(err, "endpoint %s", name)
	}
	return method, nil
}

// decodeObject treats an empty body as an empty object.
func decodeObject(body []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return map[string]any{}, nil
	}
	var value any
	err := json.Unmarshal(body, &value)
	if err != nil {
		return nil, errors.WithMessage(domain.ErrInvalidResponse, err.Error())
	}
	data, ok := value.(map[string]any)
	if !ok {
		return nil, domain.ErrInvalidResponse
	}
	return data, nil
}
