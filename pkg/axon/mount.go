package axon

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRoute is returned by Mount when a handler cannot be registered
var ErrInvalidRoute = errors.New("invalid route")

// Router is implemented by framework adapters. Handle receives paths in
// Axon format and converts them to the framework's own syntax.
type Router interface {
	Handle(method string, path AxonPath, handler HandlerFunc) error
}

// Mount registers handlers with router in collection order. Every handler is
// checked first, so an invalid collection registers nothing.
func Mount(router Router, handlers []RouteHandler) error {
	routes, err := checkRoutes(handlers)
	if err != nil {
		return err
	}

	for i, handler := range handlers {
		if err := router.Handle(routes[i].Method, routes[i].Path, handler.Handle); err != nil {
			return fmt.Errorf("failed to mount %s: %w", routes[i], err)
		}
	}
	return nil
}

// Routes returns the route of each handler in collection order
func Routes(handlers []RouteHandler) []Route {
	routes := make([]Route, 0, len(handlers))
	for _, handler := range handlers {
		if handler == nil {
			continue
		}
		routes = append(routes, handler.Route())
	}
	return routes
}

func checkRoutes(handlers []RouteHandler) ([]Route, error) {
	routes := make([]Route, len(handlers))
	seen := make(map[string]int, len(handlers))

	var errs []error
	for i, handler := range handlers {
		if handler == nil {
			errs = append(errs, fmt.Errorf("%w: handler %d is nil", ErrInvalidRoute, i))
			continue
		}

		route := handler.Route()
		route.Method = strings.ToUpper(strings.TrimSpace(route.Method))
		routes[i] = route

		if route.Method == "" {
			errs = append(errs, fmt.Errorf("%w: handler %d has no method", ErrInvalidRoute, i))
			continue
		}
		// parameter names do not distinguish routes
		shape, err := route.Path.Format(func(string) string { return "{}" }, "{*}")
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: handler %d: %v", ErrInvalidRoute, i, err))
			continue
		}

		key := route.Method + " " + shape
		if first, ok := seen[key]; ok {
			errs = append(errs, fmt.Errorf("%w: %s conflicts with handler %d", ErrInvalidRoute, route, first))
			continue
		}
		seen[key] = i
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return routes, nil
}
