package endpoint

import (
	"net/http"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"znuny-client/domain"
)

var supportedMethods = map[string]bool{ // nolint:gochecknoglobals
	http.MethodGet:     true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodHead:    true,
	http.MethodOptions: true,
}

// Endpoint binds an operation name to an http method and a path template.
// The zero value is not usable, build it with New.
type Endpoint struct {
	name   string
	method string
	path   string
}

func New(name string, method string, path string) (Endpoint, error) {
	normalizedMethod, err := NormalizeMethod(method)
	if err != nil {
		return Endpoint{}, errors.WithMessagef(err, "endpoint %s", name)
	}
	normalizedPath, err := NormalizePath(path)
	if err != nil {
		return Endpoint{}, errors.WithMessagef(err, "endpoint %s", name)
	}
	return Endpoint{
		name:   name,
		method: normalizedMethod,
		path:   normalizedPath,
	}, nil
}

func (e Endpoint) Name() string {
	return e.name
}

func (e Endpoint) Method() string {
	return e.method
}

func (e Endpoint) Path() string {
	return e.path
}

// FullPath prefixes the endpoint path with basePath.
func (e Endpoint) FullPath(basePath string) string {
	return JoinPath(basePath, e.path)
}

func NormalizeMethod(method string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(method))
	if !supportedMethods[normalized] {
		return "", errors.WithMessagef(
			domain.ErrUnsupportedMethod,
			"method %q, use one of: %s",
			method, strings.Join(SupportedMethods(), ", "),
		)
	}
	return normalized, nil
}

// NormalizePath drops empty segments, so "Ticket//{ticket_id}/" becomes "/Ticket/{ticket_id}".
func NormalizePath(path string) (string, error) {
	normalized := JoinPath("", strings.TrimSpace(path))
	if normalized == "/" {
		return "", domain.ErrEmptyPath
	}
	return normalized, nil
}

func SupportedMethods() []string {
	methods := make([]string, 0, len(supportedMethods))
	for method := range supportedMethods {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return methods
}

// JoinPath joins non-empty segments of basePath and path with single slashes.
// The result always has one leading slash and never a trailing one.
func JoinPath(basePath string, path string) string {
	segments := make([]string, 0)
	for _, part := range []string{basePath, path} {
		for _, segment := range strings.Split(part, "/") {
			if segment != "" {
				segments = append(segments, segment)
			}
		}
	}
	return "/" + strings.Join(segments, "/")
}
