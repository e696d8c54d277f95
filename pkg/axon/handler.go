// Package axon is the runtime contract shared by generated route registries
// and the applications that mount them.
package axon

import (
	"context"

	"github.com/google/uuid"
)

// RequestIDHeader carries the request ID in both directions
const RequestIDHeader = "X-Request-ID"

// Route identifies where a handler is mounted
type Route struct {
	Method string
	Path   AxonPath
}

// String returns "METHOD /path"
func (r Route) String() string {
	return r.Method + " " + r.Path.Raw()
}

// RouteHandler is the capability every generated registry element provides.
// Consumers only ever see handlers through this interface.
type RouteHandler interface {
	Route() Route
	Handle(ctx RequestContext) error
}

// HandlerFunc defines the signature for HTTP handlers
type HandlerFunc func(RequestContext) error

// RequestContext provides a framework-agnostic view of one request
type RequestContext interface {
	Context() context.Context
	RequestID() string

	// Request data
	Method() string
	Path() string
	Param(key string) string
	QueryParam(key string) string
	Header(key string) string

	// Body handling
	Bind(i interface{}) error

	// Response writing
	SetHeader(key, value string)
	JSON(code int, i interface{}) error
	String(code int, s string) error
	NoContent(code int) error
}

type funcHandler struct {
	route Route
	fn    HandlerFunc
}

func (h funcHandler) Route() Route                    { return h.route }
func (h funcHandler) Handle(ctx RequestContext) error { return h.fn(ctx) }

// Func builds a RouteHandler from a plain function
func Func(method, path string, fn HandlerFunc) RouteHandler {
	return funcHandler{
		route: Route{Method: method, Path: NewAxonPath(path)},
		fn:    fn,
	}
}

// RequestIDFrom returns the incoming request ID, or a new one when the
// client did not send any.
func RequestIDFrom(header string) string {
	if header != "" {
		return header
	}
	return uuid.NewString()
}
