package endpoint

import (
	"sort"

	"github.com/pkg/errors"
	"znuny-client/domain"
)

type Route struct {
	Method string
	Path   string
}

// Registry maps operation names to endpoints. It is not safe for concurrent mutation.
type Registry struct {
	basePath  string
	endpoints map[string]Endpoint
}

func NewRegistry(endpoints ...Endpoint) *Registry {
	r := &Registry{
		endpoints: make(map[string]Endpoint, len(endpoints)),
	}
	for _, e := range endpoints {
		r.Register(e)
	}
	return r
}

func (r *Registry) BasePath() string {
	return r.basePath
}

func (r *Registry) SetBasePath(basePath string) {
	r.basePath = basePath
}

// Register stores e under its name, replacing any previous binding.
func (r *Registry) Register(e Endpoint) Endpoint {
	r.endpoints[e.Name()] = e
	return e
}

// Configure registers every route of mapping and stops at the first invalid one.
func (r *Registry) Configure(mapping map[string]Route) error {
	for _, name := range sortedKeys(mapping) {
		route := mapping[name]
		e, err := New(name, route.Method, route.Path)
		if err != nil {
			return errors.WithMessage(err, "configure registry")
		}
		r.Register(e)
	}
	return nil
}

func (r *Registry) Get(name string) (Endpoint, error) {
	e, ok := r.endpoints[name]
	if !ok {
		return Endpoint{}, errors.WithMessagef(domain.ErrEndpointNotRegistered, "endpoint %s", name)
	}
	return e, nil
}

func (r *Registry) Has(name string) bool {
	_, ok := r.endpoints[name]
	return ok
}

func (r *Registry) PathFor(name string) (string, error) {
	e, err := r.Get(name)
	if err != nil {
		return "", err
	}
	return e.FullPath(r.basePath), nil
}

func (r *Registry) MethodFor(name string) (string, error) {
	e, err := r.Get(name)
	if err != nil {
		return "", err
	}
	return e.Method(), nil
}

func (r *Registry) Names() []string {
	return sortedKeys(r.endpoints)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
