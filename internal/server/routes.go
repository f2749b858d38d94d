package server

import (
	"net/http"
	"strings"
)

type RouteDoc struct {
	Method      string `json:"method"`
	Pattern     string `json:"pattern"`
	Summary     string `json:"summary,omitempty"`
	ExampleBody string `json:"example_body,omitempty"`
}

type RouteRegistry struct {
	routes []RouteDoc
}

func (rr *RouteRegistry) Add(doc RouteDoc) {
	rr.routes = append(rr.routes, doc)
}

func (rr *RouteRegistry) List() []RouteDoc {
	out := make([]RouteDoc, len(rr.routes))
	copy(out, rr.routes)
	return out
}

func splitRoute(methodAndPattern string) (method, pattern string) {
	parts := strings.SplitN(strings.TrimSpace(methodAndPattern), " ", 2)
	if len(parts) == 1 {
		return "", parts[0]
	}
	return parts[0], strings.TrimSpace(parts[1])
}

// Handle documents a route and mounts h on its path. The method is only
// recorded; handlers reject other methods themselves so API clients get a
// JSON 405.
func Handle(mux *http.ServeMux, rr *RouteRegistry, methodAndPattern, summary, exampleBody string, h http.Handler) {
	method, pattern := splitRoute(methodAndPattern)
	rr.Add(RouteDoc{Method: method, Pattern: pattern, Summary: summary, ExampleBody: exampleBody})
	mux.Handle(pattern, h)
}

func HandleFunc(mux *http.ServeMux, rr *RouteRegistry, methodAndPattern, summary, exampleBody string, h http.HandlerFunc) {
	Handle(mux, rr, methodAndPattern, summary, exampleBody, h)
}
