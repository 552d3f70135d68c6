package client_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/txix-open/isp-kit/http/httpcli"
	"github.com/txix-open/isp-kit/test"
	"znuny-client/client"
	"znuny-client/domain"
	"znuny-client/endpoint"
	"znuny-client/model"
	"znuny-client/session"
	"znuny-client/transport"
	"znuny-client/znunytest"
)

type fakeTransport struct {
	requests []*transport.Request
	body     string
	status   int
	closed   int
}

func (f *fakeTransport) RoundTrip(ctx context.Context, req *transport.Request) (*transport.Response, error) {
	f.requests = append(f.requests, req)
	status := f.status
	if status == 0 {
		status = http.StatusOK
	}
	return &transport.Response{StatusCode: status, Body: []byte(f.body)}, nil
}

func (f *fakeTransport) Close() error {
	f.closed++
	return nil
}

func newClient(t *testing.T, srv *znunytest.Server, opts ...client.Option) *client.Client {
	t.Helper()
	opts = append([]client.Option{client.WithBaseUrl(srv.URL)}, opts...)
	cli, err := client.New(context.Background(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = cli.Close()
	})
	return cli
}

func TestLoginAndGetTicket(t *testing.T) {
	t.Parallel()
	test, require := test.New(t)

	srv := znunytest.New(t, znunytest.WithUser("agent", "secret"))
	cli := newClient(t, srv,
		client.WithCredentials("agent", "secret"),
		client.WithLogger(test.Logger(), true, true),
	)
	require.NotEmpty(cli.SessionId())

	_, err := cli.Ticket.Get(context.Background(), 5853276, client.TicketGetOptions{})
	apiErr := &domain.ApiError{}
	require.ErrorAs(err, &apiErr)
	require.EqualValues("TicketGet.AccessDenied", apiErr.Code())

	last, ok := srv.LastRequest()
	require.True(ok)
	require.EqualValues(http.MethodGet, last.Method)
	require.EqualValues("/Ticket/5853276", last.Path)
	require.EqualValues(cli.SessionId(), last.Query.Get("SessionID"))
	require.EqualValues("0", last.Query.Get("DynamicFields"))
	require.EqualValues("0", last.Query.Get("AllArticles"))
	require.NotEmpty(last.Header.Get(transport.RequestIdHeader))
}

func TestTicketLifecycle(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	ctx := context.Background()

	srv := znunytest.New(t, znunytest.WithUser("agent", "secret"))
	cli := newClient(t, srv, client.WithCredentials("agent", "secret"))

	payload := model.CreatePayload{
		Ticket: model.Ticket{
			Title:        "Login does not work",
			Queue:        "Raw",
			State:        "new",
			Priority:     "3 normal",
			CustomerUser: model.Ptr("customer@example.com"),
		},
		Article: model.Article{
			Subject:     "Cannot log in",
			Body:        "Details",
			ContentType: "text/plain; charset=utf-8",
			From:        model.Ptr("customer@example.com"),
		},
	}
	resp, err := cli.Ticket.Create(ctx, payload, map[string]any{
		"TimeUnit":  5,
		"SessionID": "forged",
	})
	require.NoError(err)
	require.EqualValues(1, resp.Data["TicketID"])

	last, _ := srv.LastRequest()
	require.EqualValues(cli.SessionId(), last.Body["SessionID"])
	require.EqualValues(5, last.Body["TimeUnit"])
	require.EqualValues("customer@example.com", last.Body["Article"].(map[string]any)["From"])

	_, err = cli.Ticket.Update(ctx, 1, model.UpdatePayload{
		Ticket: &model.Ticket{State: "open"},
	}, nil)
	require.NoError(err)
	last, _ = srv.LastRequest()
	require.EqualValues(http.MethodPatch, last.Method)
	require.EqualValues("/Ticket/1", last.Path)

	ticket, ok := srv.Ticket(1)
	require.True(ok)
	require.EqualValues("open", ticket["State"])
	require.EqualValues("Login does not work", ticket["Title"])

	resp, err = cli.Ticket.Get(ctx, 1, client.TicketGetOptions{AllArticles: true})
	require.NoError(err)
	tickets := struct {
		Ticket []struct {
			TicketID int
			State    string
			Article  []map[string]any
		}
	}{}
	require.NoError(resp.Decode(&tickets))
	require.Len(tickets.Ticket, 1)
	require.EqualValues("open", tickets.Ticket[0].State)
	require.Len(tickets.Ticket[0].Article, 1)

	_, err = cli.Ticket.Create(ctx, model.CreatePayload{}, nil)
	require.ErrorIs(err, domain.ErrRequiredField)
}

func TestRebindTicketGet(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	srv := znunytest.New(t, znunytest.WithUser("agent", "secret"))
	srv.Route(http.MethodGet, "/Tickets/{id}", znunytest.TicketGet)
	cli := newClient(t, srv, client.WithCredentials("agent", "secret"))

	e, err := cli.SetEndpoint.TicketGet(client.Binding{Path: " Tickets/{id}/ ", Identifier: "id"})
	require.NoError(err)
	require.EqualValues("/Tickets/{id}", e.Path())
	require.EqualValues(http.MethodGet, e.Method())

	identifier, err := cli.EndpointIdentifier(client.TicketGet)
	require.NoError(err)
	require.EqualValues("id", identifier)

	_, err = cli.Ticket.Get(context.Background(), 7, client.TicketGetOptions{})
	apiErr := &domain.ApiError{}
	require.ErrorAs(err, &apiErr)

	last, _ := srv.LastRequest()
	require.EqualValues("/Tickets/7", last.Path)
}

func TestEndpointSetterDefaults(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	cli, err := client.New(context.Background(), client.WithTransport(&fakeTransport{}))
	require.NoError(err)

	e, err := cli.SetEndpoint.TicketUpdate(client.Binding{Path: "/TicketUpdate/{ticket_id}/"})
	require.NoError(err)
	require.EqualValues(http.MethodPost, e.Method())
	require.EqualValues("/TicketUpdate/{ticket_id}", e.Path())

	e, err = cli.SetEndpoint.TicketCreate(client.Binding{Path: "TicketCreate", Method: "put"})
	require.NoError(err)
	require.EqualValues(http.MethodPut, e.Method())

	_, err = cli.SetEndpoint.TicketGet(client.Binding{Path: "/", Method: "GET"})
	require.ErrorIs(err, domain.ErrEmptyPath)
}

func TestApiErrorInSuccessfulBody(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	srv := znunytest.New(t)
	srv.Handle(http.MethodPost, "/Broken", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Error":{"ErrorCode":"400","ErrorMessage":"Bad"}}`))
	})
	srv.Handle(http.MethodGet, "/List", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[1,2]`))
	})
	srv.Handle(http.MethodGet, "/Empty", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	srv.Handle(http.MethodGet, "/FalsyError", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Error":{},"TicketID":3}`))
	})
	cli := newClient(t, srv)
	ctx := context.Background()

	_, err := cli.Request(ctx, "custom", client.Method("post"), client.Path("/Broken"))
	apiErr := &domain.ApiError{}
	require.ErrorAs(err, &apiErr)
	require.EqualValues("400: Bad", apiErr.Error())
	require.EqualValues(map[string]any{"ErrorCode": "400", "ErrorMessage": "Bad"}, apiErr.Details())

	_, err = cli.Request(ctx, "custom", client.Method("GET"), client.Path("/List"))
	require.ErrorIs(err, domain.ErrInvalidResponse)

	resp, err := cli.Request(ctx, "custom", client.Method("GET"), client.Path("/Empty"))
	require.NoError(err)
	require.Empty(resp.Data)

	resp, err = cli.Request(ctx, "custom", client.Method("GET"), client.Path("/FalsyError"))
	require.NoError(err)
	require.EqualValues(3, resp.Data["TicketID"])
}

func TestTransportErrorsPropagate(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	srv := znunytest.New(t)
	cli := newClient(t, srv)
	ctx := context.Background()

	_, err := cli.Request(ctx, client.TicketGet, client.Path("/Missing"))
	errResp := httpcli.ErrorResponse{}
	require.ErrorAs(err, &errResp)
	require.EqualValues(http.StatusNotFound, errResp.StatusCode)

	_, err = cli.Request(ctx, client.SessionCreate, client.Method("DELETE"))
	require.ErrorAs(err, &errResp)
	require.EqualValues(http.StatusMethodNotAllowed, errResp.StatusCode)

	fake := &fakeTransport{status: http.StatusBadGateway, body: `{"Error":"ignored"}`}
	cli, err = client.New(ctx, client.WithTransport(fake))
	require.NoError(err)
	_, err = cli.Request(ctx, client.SessionCreate)
	require.ErrorAs(err, &errResp)
	require.EqualValues(http.StatusBadGateway, errResp.StatusCode)
	require.EqualValues(`http call error: url=/Session status_code=502, body={"Error":"ignored"}`, err.Error())
}

func TestCustomTransportErrorWithLogging(t *testing.T) {
	t.Parallel()
	test, require := test.New(t)
	ctx := context.Background()

	fake := &fakeTransport{status: http.StatusServiceUnavailable, body: `{}`}
	cli, err := client.New(ctx,
		client.WithTransport(fake),
		client.WithLogger(test.Logger(), true, true),
	)
	require.NoError(err)

	_, err = cli.Ticket.Get(ctx, 9, client.TicketGetOptions{})
	errResp := httpcli.ErrorResponse{}
	require.ErrorAs(err, &errResp)
	require.EqualValues(http.StatusServiceUnavailable, errResp.StatusCode)
	require.Contains(err.Error(), "url=/Ticket/9")
}

func TestLoginWireKeys(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	srv := znunytest.New(t, znunytest.WithUser("agent", "secret"))
	cli := newClient(t, srv, client.WithCredentials("agent", "secret"))
	require.NotEmpty(cli.SessionId())

	requests := srv.Requests()
	require.NotEmpty(requests)
	require.EqualValues("/Session", requests[0].Path)
	require.EqualValues(map[string]any{"UserLogin": "agent", "Password": "secret"}, requests[0].Body)
}

func TestResolutionErrors(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	ctx := context.Background()

	fake := &fakeTransport{body: `{}`}
	cli, err := client.New(ctx, client.WithTransport(fake))
	require.NoError(err)

	_, err = cli.Request(ctx, "ticket_search")
	require.ErrorIs(err, domain.ErrEndpointNotRegistered)

	_, err = cli.EndpointIdentifier("ticket_search")
	require.ErrorIs(err, domain.ErrIdentifierNotRegistered)

	_, err = cli.Request(ctx, client.TicketGet, client.PathParams(map[string]any{"id": 1}))
	require.ErrorIs(err, domain.ErrMissingPathParam)

	_, err = cli.Request(ctx, client.TicketGet, client.Method("FETCH"))
	require.ErrorIs(err, domain.ErrUnsupportedMethod)

	_, err = cli.Request(ctx, client.TicketGet)
	require.NoError(err)
	require.EqualValues("/Ticket/{ticket_id}", fake.requests[0].Path)

	_, err = cli.Request(ctx, "anything", client.Method("GET"), client.Path("/raw/{x}"), client.PathParams(map[string]any{"x": 42}))
	require.NoError(err)
	require.EqualValues("/raw/42", fake.requests[1].Path)
	require.EqualValues(http.MethodGet, fake.requests[1].Method)
	require.Empty(fake.closed)
}

func TestDefaultsKeepProvidedRegistry(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	custom, err := endpoint.New(client.TicketGet, "POST", "/TicketGet/{ticket_id}")
	require.NoError(err)
	registry := endpoint.NewRegistry(custom)
	registry.SetBasePath("/api")

	fake := &fakeTransport{body: `{}`}
	cli, err := client.New(context.Background(), client.WithTransport(fake), client.WithRegistry(registry))
	require.NoError(err)
	require.Same(registry, cli.Endpoints())
	require.EqualValues([]string{
		client.SessionCreate, client.TicketCreate, client.TicketGet, client.TicketUpdate,
	}, registry.Names())

	method, err := registry.MethodFor(client.TicketGet)
	require.NoError(err)
	require.EqualValues(http.MethodPost, method)

	method, err = registry.MethodFor(client.TicketUpdate)
	require.NoError(err)
	require.EqualValues(http.MethodPatch, method)

	_, err = cli.Ticket.Get(context.Background(), 12, client.TicketGetOptions{DynamicFields: true})
	require.NoError(err)
	require.EqualValues("/api/TicketGet/12", fake.requests[0].Path)
	require.EqualValues(1, fake.requests[0].Query["DynamicFields"])
}

func TestLoginWithoutSessionId(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	fake := &fakeTransport{body: `{"Unexpected":true}`}
	cli, err := client.New(context.Background(),
		client.WithTransport(fake),
		client.WithCredentials("agent", "secret"),
	)
	require.NoError(err)
	require.Empty(cli.SessionId())
	require.EqualValues(domain.SessionCreateRequest{UserLogin: "agent", Password: "secret"}, fake.requests[0].Body)
}

func TestFailedLoginClosesTransport(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	fake := &fakeTransport{body: `{"Error":{"ErrorCode":"SessionCreate.AuthFail","ErrorMessage":"denied"}}`}
	_, err := client.New(context.Background(),
		client.WithTransport(fake),
		client.WithCredentials("agent", "wrong"),
	)
	apiErr := &domain.ApiError{}
	require.ErrorAs(err, &apiErr)
	require.EqualValues("SessionCreate.AuthFail: denied", apiErr.Error())
	require.EqualValues(1, fake.closed)
}

func TestSessionStore(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	ctx := context.Background()

	srv := znunytest.New(t, znunytest.WithBasePath("/otrs/nph-genericinterface.pl/Webservice/GenericTicketConnectorREST"))
	srv.AddUser("agent", "secret")
	store := session.NewMemory(0)

	registry := endpoint.NewRegistry()
	registry.SetBasePath("/otrs/nph-genericinterface.pl/Webservice/GenericTicketConnectorREST/")
	first := newClient(t, srv,
		client.WithRegistry(registry),
		client.WithSessionStore(store),
		client.WithCredentials("agent", "secret"),
	)

	second := newClient(t, srv, client.WithRegistry(registry), client.WithSessionStore(store))
	ok, err := second.ResumeSession(ctx, "agent")
	require.NoError(err)
	require.True(ok)
	require.EqualValues(first.SessionId(), second.SessionId())

	id := srv.AddTicket(map[string]any{"Title": "seeded"})
	_, err = second.Ticket.Get(ctx, id, client.TicketGetOptions{})
	require.NoError(err)

	require.NoError(second.ClearSession(ctx))
	require.Empty(second.SessionId())
	ok, err = first.ResumeSession(ctx, "agent")
	require.NoError(err)
	require.False(ok)

	withoutStore := newClient(t, srv)
	_, err = withoutStore.ResumeSession(ctx, "agent")
	require.ErrorIs(err, domain.ErrSessionStoreNotConfigured)
}

func TestCloseAndScoped(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	ctx := context.Background()

	fake := &fakeTransport{body: `{}`}
	cli, err := client.New(ctx, client.WithTransport(fake))
	require.NoError(err)
	require.NoError(cli.Close())
	require.NoError(cli.Close())
	require.EqualValues(1, fake.closed)
	_, err = cli.Request(ctx, client.SessionCreate)
	require.ErrorIs(err, transport.ErrClosed)

	fake = &fakeTransport{body: `{}`}
	expected := errors.New("boom")
	err = client.Scoped(ctx, func(cli *client.Client) error {
		_, err := cli.Request(ctx, client.SessionCreate)
		require.NoError(err)
		return expected
	}, client.WithTransport(fake))
	require.ErrorIs(err, expected)
	require.EqualValues(1, fake.closed)

	fake = &fakeTransport{body: `{}`}
	require.Panics(func() {
		_ = client.Scoped(ctx, func(cli *client.Client) error {
			panic("unexpected")
		}, client.WithTransport(fake))
	})
	require.EqualValues(1, fake.closed)
}
