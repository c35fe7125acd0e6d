// Package module mounts self-contained HTTP surfaces under single-level
// path prefixes, each with its own middleware stack.
package module

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/JaimeStill/nanohunter/pkg/middleware"
)

// ErrInvalidPrefix is returned for prefixes that are not a single "/name" segment.
var ErrInvalidPrefix = errors.New("invalid module prefix")

// Module is an HTTP handler that strips its prefix and delegates to an inner router
// with its own middleware stack.
type Module struct {
	prefix     string
	router     http.Handler
	middleware middleware.System
}

// New creates a Module with the given single-level prefix (e.g. "/api").
func New(prefix string, router http.Handler) (*Module, error) {
	if err := validatePrefix(prefix); err != nil {
		return nil, err
	}
	return &Module{
		prefix:     prefix,
		router:     router,
		middleware: middleware.New(),
	}, nil
}

// Prefix returns the module's path prefix.
func (m *Module) Prefix() string {
	return m.prefix
}

// Use adds middleware to the module's stack.
func (m *Module) Use(mws ...middleware.Middleware) {
	m.middleware.Use(mws...)
}

// ServeHTTP strips the module prefix from the request path and dispatches
// through the middleware stack to the inner router.
func (m *Module) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	m.middleware.Apply(m.router).ServeHTTP(w, stripPrefix(req, m.prefix))
}

func stripPrefix(req *http.Request, prefix string) *http.Request {
	path := strings.TrimPrefix(req.URL.Path, prefix)
	if path == "" {
		path = "/"
	}

	r := req.Clone(req.Context())
	r.URL = new(url.URL)
	*r.URL = *req.URL
	r.URL.Path = path
	r.URL.RawPath = ""
	return r
}

func validatePrefix(prefix string) error {
	switch {
	case prefix == "":
		return fmt.Errorf("%w: empty", ErrInvalidPrefix)
	case !strings.HasPrefix(prefix, "/"):
		return fmt.Errorf("%w: must start with /: %s", ErrInvalidPrefix, prefix)
	case len(prefix) == 1 || strings.Count(prefix, "/") != 1:
		return fmt.Errorf("%w: must be a single-level sub-path: %s", ErrInvalidPrefix, prefix)
	}
	return nil
}
