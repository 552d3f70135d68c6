package client

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"znuny-client/domain"
	"znuny-client/endpoint"
	"znuny-client/model"
)

type SessionRoutes struct {
	cli *Client
}

func (r SessionRoutes) Create(ctx context.Context, username string, password string) (*Response, error) {
	return r.cli.Request(ctx, SessionCreate, JsonBody(domain.SessionCreateRequest{
		UserLogin: username,
		Password:  password,
	}))
}

type TicketRoutes struct {
	cli *Client
}

type TicketGetOptions struct {
	DynamicFields bool
	AllArticles   bool
}

// Create sends payload merged with overrides; overrides win and SessionID is always the current one.
// A nil payload sends just the overrides.
func (r TicketRoutes) Create(ctx context.Context, payload model.Payload, overrides map[string]any) (*Response, error) {
	body, err := r.body(payload, overrides)
	if err != nil {
		return nil, errors.WithMessage(err, "ticket create")
	}
	return r.cli.Request(ctx, TicketCreate, JsonBody(body))
}

func (r TicketRoutes) Update(
	ctx context.Context,
	ticketId int,
	payload model.Payload,
	overrides map[string]any,
) (*Response, error) {
	identifier, err := r.cli.EndpointIdentifier(TicketUpdate)
	if err != nil {
		return nil, err
	}
	body, err := r.body(payload, overrides)
	if err != nil {
		return nil, errors.WithMessage(err, "ticket update")
	}
	return r.cli.Request(ctx, TicketUpdate,
		PathParams(map[string]any{identifier: ticketId}),
		JsonBody(body),
	)
}

func (r TicketRoutes) Get(ctx context.Context, ticketId int, opts TicketGetOptions) (*Response, error) {
	identifier, err := r.cli.EndpointIdentifier(TicketGet)
	if err != nil {
		return nil, err
	}
	query := domain.TicketGetQuery{
		SessionID:     r.cli.sessionId,
		DynamicFields: opts.DynamicFields,
		AllArticles:   opts.AllArticles,
	}
	return r.cli.Request(ctx, TicketGet,
		PathParams(map[string]any{identifier: ticketId}),
		Query(query.Params()),
	)
}

func (r TicketRoutes) body(payload model.Payload, overrides map[string]any) (map[string]any, error) {
	body, err := model.Merge(payload, overrides)
	if err != nil {
		return nil, err
	}
	body[domain.SessionIdField] = r.cli.sessionId
	return body, nil
}

// Binding describes a replacement route. Empty Method and Identifier take the operation defaults.
type Binding struct {
	Path       string
	Method     string
	Identifier string
}

type EndpointSetter struct {
	cli *Client
}

func (s EndpointSetter) TicketCreate(binding Binding) (endpoint.Endpoint, error) {
	return s.bind(TicketCreate, http.MethodPost, binding, false)
}

func (s EndpointSetter) TicketGet(binding Binding) (endpoint.Endpoint, error) {
	return s.bind(TicketGet, http.MethodGet, binding, true)
}

// TicketUpdate defaults to POST, the method of the classic TicketUpdate connector route.
func (s EndpointSetter) TicketUpdate(binding Binding) (endpoint.Endpoint, error) {
	return s.bind(TicketUpdate, http.MethodPost, binding, true)
}

func (s EndpointSetter) bind(name string, defaultMethod string, binding Binding, withIdentifier bool) (endpoint.Endpoint, error) {
	method := binding.Method
	if method == "" {
		method = defaultMethod
	}
	path := strings.TrimRight(strings.TrimSpace(binding.Path), "/")
	e, err := s.cli.RegisterEndpoint(name, method, path)
	if err != nil {
		return endpoint.Endpoint{}, err
	}
	if withIdentifier {
		identifier := binding.Identifier
		if identifier == "" {
			identifier = DefaultIdentifier
		}
		s.cli.SetEndpointIdentifier(name, identifier)
	}
	return e, nil
}
