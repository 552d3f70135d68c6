package znunytest

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/txix-open/isp-kit/json"
)

const (
	SessionCreate = "session_create"
	TicketCreate  = "ticket_create"
	TicketUpdate  = "ticket_update"
	TicketGet     = "ticket_get"
)

type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   map[string]any
}

type Option func(s *Server)

// WithBasePath mounts the default routes under basePath.
func WithBasePath(basePath string) Option {
	return func(s *Server) {
		s.basePath = basePath
	}
}

func WithUser(login string, password string) Option {
	return func(s *Server) {
		s.users[login] = password
	}
}

// Server is an in-process fake of the ticket connector web service.
type Server struct {
	URL string

	basePath string
	srv      *httptest.Server
	router   *mux.Router

	lock         sync.Mutex
	users        map[string]string
	sessions     map[string]string
	tickets      map[int]map[string]any
	articles     map[int][]map[string]any
	nextTicketId int
	requests     []Request
}

func New(t testing.TB, opts ...Option) *Server {
	t.Helper()

	s := &Server{
		router:       mux.NewRouter(),
		users:        map[string]string{},
		sessions:     map[string]string{},
		tickets:      map[int]map[string]any{},
		articles:     map[int][]map[string]any{},
		nextTicketId: 1,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.Route(http.MethodPost, s.basePath+"/Session", SessionCreate)
	s.Route(http.MethodPost, s.basePath+"/Ticket", TicketCreate)
	s.Route(http.MethodPatch, s.basePath+"/Ticket/{ticket_id}", TicketUpdate)
	s.Route(http.MethodGet, s.basePath+"/Ticket/{ticket_id}", TicketGet)

	s.srv = httptest.NewServer(http.HandlerFunc(s.serve))
	s.URL = s.srv.URL
	t.Cleanup(s.srv.Close)
	return s
}

// Route serves operation at another method and path. The path may use any placeholder name.
func (s *Server) Route(method string, path string, operation string) {
	handlers := map[string]http.HandlerFunc{
		SessionCreate: s.sessionCreate,
		TicketCreate:  s.ticketCreate,
		TicketUpdate:  s.ticketUpdate,
		TicketGet:     s.ticketGet,
	}
	handler, ok := handlers[operation]
	if !ok {
		panic(fmt.Sprintf("znunytest: unknown operation %s", operation))
	}
	s.router.HandleFunc(path, handler).Methods(method)
}

// Handle registers a custom handler, e.g. to reply with a malformed body.
func (s *Server) Handle(method string, path string, handler http.HandlerFunc) {
	s.router.HandleFunc(path, handler).Methods(method)
}

func (s *Server) AddUser(login string, password string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.users[login] = password
}

// AddTicket stores ticket fields and returns the new ticket id.
func (s *Server) AddTicket(fields map[string]any) int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.addTicket(fields, nil)
}

func (s *Server) Ticket(id int) (map[string]any, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	ticket, ok := s.tickets[id]
	if !ok {
		return nil, false
	}
	return copyMap(ticket), true
}

func (s *Server) Requests() []Request {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]Request(nil), s.requests...)
}

func (s *Server) LastRequest() (Request, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if len(s.requests) == 0 {
		return Request{}, false
	}
	return s.requests[len(s.requests)-1], true
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	data, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(data))

	var body map[string]any
	_ = json.Unmarshal(data, &body)

	s.lock.Lock()
	s.requests = append(s.requests, Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   body,
	})
	s.lock.Unlock()

	s.router.ServeHTTP(w, r)
}

func (s *Server) sessionCreate(w http.ResponseWriter, r *http.Request) {
	body := readBody(r)
	login, _ := body["UserLogin"].(string)
	password, _ := body["Password"].(string)

	s.lock.Lock()
	defer s.lock.Unlock()

	expected, ok := s.users[login]
	if !ok || expected != password {
		writeError(w, "SessionCreate.AuthFail", "SessionCreate: Authorization failing!")
		return
	}
	sessionId := uuid.NewString()
	s.sessions[sessionId] = login
	writeJson(w, http.StatusOK, map[string]any{"SessionID": sessionId})
}

func (s *Server) ticketCreate(w http.ResponseWriter, r *http.Request) {
	body := readBody(r)

	s.lock.Lock()
	defer s.lock.Unlock()

	if !s.authorized(body["SessionID"]) {
		writeError(w, "TicketCreate.AuthFail", "TicketCreate: Authorization failing!")
		return
	}
	ticket, _ := body["Ticket"].(map[string]any)
	if ticket == nil {
		writeError(w, "TicketCreate.MissingParameter", "TicketCreate: Ticket parameter is missing or not valid!")
		return
	}
	article, _ := body["Article"].(map[string]any)
	if article == nil {
		writeError(w, "TicketCreate.MissingParameter", "TicketCreate: Article parameter is missing or not valid!")
		return
	}

	id := s.addTicket(ticket, article)
	writeJson(w, http.StatusOK, map[string]any{
		"TicketID":     id,
		"TicketNumber": s.tickets[id]["TicketNumber"],
		"ArticleID":    len(s.articles[id]),
	})
}

func (s *Server) ticketUpdate(w http.ResponseWriter, r *http.Request) {
	body := readBody(r)

	s.lock.Lock()
	defer s.lock.Unlock()

	if !s.authorized(body["SessionID"]) {
		writeError(w, "TicketUpdate.AuthFail", "TicketUpdate: Authorization failing!")
		return
	}
	id, ok := ticketId(r)
	ticket := s.tickets[id]
	if !ok || ticket == nil {
		writeError(w, "TicketUpdate.AccessDenied", "TicketUpdate: User does not have access to the ticket!")
		return
	}
	fields, _ := body["Ticket"].(map[string]any)
	for key, value := range fields {
		ticket[key] = value
	}
	article, _ := body["Article"].(map[string]any)
	if article != nil {
		s.articles[id] = append(s.articles[id], copyMap(article))
	}
	writeJson(w, http.StatusOK, map[string]any{
		"TicketID":     id,
		"TicketNumber": ticket["TicketNumber"],
	})
}

func (s *Server) ticketGet(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	s.lock.Lock()
	defer s.lock.Unlock()

	if !s.authorized(query.Get("SessionID")) {
		writeError(w, "TicketGet.AuthFail", "TicketGet: Authorization failing!")
		return
	}
	id, ok := ticketId(r)
	ticket := s.tickets[id]
	if !ok || ticket == nil {
		writeError(w, "TicketGet.AccessDenied", "TicketGet: User does not have access to the ticket!")
		return
	}

	result := copyMap(ticket)
	if query.Get("AllArticles") == "1" {
		result["Article"] = append([]map[string]any(nil), s.articles[id]...)
	}
	if query.Get("DynamicFields") == "1" {
		result["DynamicField"] = []map[string]any{}
	}
	writeJson(w, http.StatusOK, map[string]any{"Ticket": []map[string]any{result}})
}

func (s *Server) addTicket(fields map[string]any, article map[string]any) int {
	id := s.nextTicketId
	s.nextTicketId++

	ticket := copyMap(fields)
	ticket["TicketID"] = id
	ticket["TicketNumber"] = fmt.Sprintf("2024%07d", id)
	s.tickets[id] = ticket
	if article != nil {
		s.articles[id] = []map[string]any{copyMap(article)}
	}
	return id
}

func (s *Server) authorized(sessionId any) bool {
	value, ok := sessionId.(string)
	if !ok || value == "" {
		return false
	}
	_, ok = s.sessions[value]
	return ok
}

// ticketId reads the single path variable whatever its placeholder name is.
func ticketId(r *http.Request) (int, bool) {
	vars := mux.Vars(r)
	if len(vars) != 1 {
		return 0, false
	}
	value := ""
	for _, v := range vars {
		value = v
	}
	id, err := strconv.Atoi(value)
	return id, err == nil
}

func readBody(r *http.Request) map[string]any {
	body := map[string]any{}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return body
	}
	_ = json.Unmarshal(data, &body)
	return body
}

func writeError(w http.ResponseWriter, code string, message string) {
	writeJson(w, http.StatusOK, map[string]any{
		"Error": map[string]any{"ErrorCode": code, "ErrorMessage": message},
	})
}

func writeJson(w http.ResponseWriter, statusCode int, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = w.Write(data)
}

func copyMap(m map[string]any) map[string]any {
	result := make(map[string]any, len(m))
	for key, value := range m {
		result[key] = value
	}
	return result
}
