package client

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/txix-open/isp-kit/log"
	"znuny-client/domain"
	"znuny-client/endpoint"
	"znuny-client/session"
	"znuny-client/transport"
)

const (
	SessionCreate = "session_create"
	TicketCreate  = "ticket_create"
	TicketUpdate  = "ticket_update"
	TicketGet     = "ticket_get"

	DefaultIdentifier = "ticket_id"
)

func defaultRoutes() map[string]endpoint.Route {
	return map[string]endpoint.Route{
		TicketCreate:  {Method: http.MethodPost, Path: "/Ticket"},
		TicketUpdate:  {Method: http.MethodPatch, Path: "/Ticket/{ticket_id}"},
		TicketGet:     {Method: http.MethodGet, Path: "/Ticket/{ticket_id}"},
		SessionCreate: {Method: http.MethodPost, Path: "/Session"},
	}
}

func defaultIdentifiers() map[string]string {
	return map[string]string{
		TicketUpdate: DefaultIdentifier,
		TicketGet:    DefaultIdentifier,
	}
}

// Client dispatches named operations to the ticketing API and keeps the session id.
// It performs no locking: use one client per goroutine or serialize calls.
type Client struct {
	registry    *endpoint.Registry
	identifiers map[string]string
	rt          transport.RoundTripper
	closer      io.Closer
	closed      bool
	store       session.Store
	logger      log.Logger

	sessionId string
	userLogin string

	Session     SessionRoutes
	Ticket      TicketRoutes
	SetEndpoint EndpointSetter
}

func New(ctx context.Context, opts ...Option) (*Client, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	rt := o.transport
	if rt == nil {
		rt = transport.NewHttp(transport.HttpConfig{
			BaseUrl: o.baseUrl,
			Timeout: o.timeout,
			Headers: o.headers,
		})
	}
	registry := o.registry
	if registry == nil {
		registry = endpoint.NewRegistry()
	}

	c := &Client{
		registry:    registry,
		identifiers: defaultIdentifiers(),
		rt:          transport.Chain(rt, o.middlewares...),
		store:       o.store,
		logger:      o.logger,
	}
	if closer, ok := rt.(io.Closer); ok {
		c.closer = closer
	}
	c.Session = SessionRoutes{cli: c}
	c.Ticket = TicketRoutes{cli: c}
	c.SetEndpoint = EndpointSetter{cli: c}

	err := c.registerDefaultEndpoints()
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	if o.login {
		err = c.Login(ctx, o.username, o.password)
		if err != nil {
			_ = c.Close()
			return nil, errors.WithMessage(err, "login")
		}
	}

	return c, nil
}

// Scoped creates a client, passes it to fn and closes it on every exit path.
func Scoped(ctx context.Context, fn func(cli *Client) error, opts ...Option) (err error) {
	cli, err := New(ctx, opts...)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := cli.Close()
		if err == nil && closeErr != nil {
			err = errors.WithMessage(closeErr, "close client")
		}
	}()
	return fn(cli)
}

func (c *Client) Endpoints() *endpoint.Registry {
	return c.registry
}

func (c *Client) SessionId() string {
	return c.sessionId
}

func (c *Client) RegisterEndpoint(name string, method string, path string) (endpoint.Endpoint, error) {
	e, err := endpoint.New(name, method, path)
	if err != nil {
		return endpoint.Endpoint{}, err
	}
	return c.registry.Register(e), nil
}

func (c *Client) SetEndpointIdentifier(name string, identifier string) {
	c.identifiers[name] = identifier
}

func (c *Client) EndpointIdentifier(name string) (string, error) {
	identifier, ok := c.identifiers[name]
	if !ok {
		return "", errors.WithMessagef(domain.ErrIdentifierNotRegistered, "endpoint %s", name)
	}
	return identifier, nil
}

// Login creates a session and stores its id. A response without SessionID leaves an empty id.
func (c *Client) Login(ctx context.Context, username string, password string) error {
	resp, err := c.Session.Create(ctx, username, password)
	if err != nil {
		return err
	}

	result := domain.SessionCreateResponse{}
	err = resp.Decode(&result)
	if err != nil {
		return errors.WithMessage(err, "decode session")
	}
	c.sessionId = result.SessionID
	c.userLogin = username

	if c.logger != nil {
		c.logger.Info(ctx, "session created", log.String("userLogin", username))
	}

	if c.store == nil {
		return nil
	}
	err = c.store.Save(ctx, domain.StoredSession{
		UserLogin: username,
		SessionID: result.SessionID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return errors.WithMessage(err, "save session")
	}
	return nil
}

// ResumeSession restores a session id saved by a previous Login of userLogin.
// It reports false when the store has no session for the user.
func (c *Client) ResumeSession(ctx context.Context, userLogin string) (bool, error) {
	if c.store == nil {
		return false, domain.ErrSessionStoreNotConfigured
	}

	stored, err := c.store.Load(ctx, userLogin)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return false, nil
	}
	if err != nil {
		return false, errors.WithMessage(err, "load session")
	}

	c.sessionId = stored.SessionID
	c.userLogin = stored.UserLogin
	if c.logger != nil {
		c.logger.Debug(ctx, "session resumed", log.String("userLogin", stored.UserLogin))
	}
	return true, nil
}

// ClearSession forgets the current session id and removes it from the store.
func (c *Client) ClearSession(ctx context.Context) error {
	userLogin := c.userLogin
	c.sessionId = ""
	c.userLogin = ""
	if c.store == nil || userLogin == "" {
		return nil
	}
	err := c.store.Delete(ctx, userLogin)
	if err != nil {
		return errors.WithMessage(err, "delete session")
	}
	return nil
}

// Close releases the transport. Subsequent requests fail with transport.ErrClosed.
func (c *Client) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

func (c *Client) registerDefaultEndpoints() error {
	routes := defaultRoutes()
	for _, name := range []string{TicketCreate, TicketUpdate, TicketGet, SessionCreate} {
		if c.registry.Has(name) {
			continue
		}
		route := routes[name]
		_, err := c.RegisterEndpoint(name, route.Method, route.Path)
		if err != nil {
			return errors.WithMessage(err, "register default endpoints")
		}
	}
	return nil
}
