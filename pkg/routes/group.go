// Package routes declares HTTP routes as nested groups and registers them
// on a ServeMux using method-qualified patterns.
package routes

import (
	"net/http"

	"github.com/JaimeStill/nanohunter/pkg/openapi"
)

// Route binds an HTTP method and pattern to a handler. Pattern is appended
// to the enclosing group prefix. OpenAPI is optional documentation.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}

// Group organizes routes under a common prefix. Tags apply to every documented
// route that declares none of its own; Schemas are added to the spec components.
type Group struct {
	Prefix   string
	Tags     []string
	Schemas  map[string]*openapi.Schema
	Routes   []Route
	Children []Group
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	walk(groups, func(_ Group, path string, r Route) {
		mux.HandleFunc(r.Method+" "+path, r.Handler)
	})
}

// Patterns lists the registered "METHOD /path" patterns in declaration order.
func Patterns(groups ...Group) []string {
	var out []string
	walk(groups, func(_ Group, path string, r Route) {
		out = append(out, r.Method+" "+path)
	})
	return out
}

// Describe adds every documented route and group schema to spec.
func Describe(spec *openapi.Spec, groups ...Group) {
	walk(groups, func(g Group, path string, r Route) {
		if g.Schemas != nil {
			spec.Components.AddSchemas(g.Schemas)
		}
		if r.OpenAPI == nil {
			return
		}

		op := *r.OpenAPI
		if len(op.Tags) == 0 {
			op.Tags = g.Tags
		}
		spec.AddOperation(r.Method, path, &op)
	})
}

func walk(groups []Group, visit func(g Group, path string, r Route)) {
	for _, g := range groups {
		walkGroup("", g, visit)
	}
}

func walkGroup(parent string, g Group, visit func(g Group, path string, r Route)) {
	prefix := parent + g.Prefix
	for _, r := range g.Routes {
		visit(g, prefix+r.Pattern, r)
	}
	for _, child := range g.Children {
		if len(child.Tags) == 0 {
			child.Tags = g.Tags
		}
		walkGroup(prefix, child, visit)
	}
}
