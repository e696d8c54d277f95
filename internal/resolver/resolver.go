// Package resolver derives the companion module and constructor path for a
// route name. Every function here is pure; the same name always yields the
// same binding.
package resolver

import "github.com/toyz/routegen/internal/models"

const (
	modulePrefix    = "__"
	moduleSuffix    = "_mod__"
	handlerSuffix   = "_handler"
	pathSeparator   = "::"
	ConstructorFunc = "New"
)

// ModuleName returns the companion module for a route: __name_mod__
func ModuleName(name string) string {
	return modulePrefix + name + moduleSuffix
}

// HandlerName returns the handler type inside the module: name_handler
func HandlerName(name string) string {
	return name + handlerSuffix
}

// ConstructorPath returns ModuleName(name) + "::" + HandlerName(name)
func ConstructorPath(name string) string {
	return ModuleName(name) + pathSeparator + HandlerName(name)
}

// Resolve derives the binding for one route name. It never fails and does
// not check uniqueness.
func Resolve(route models.RouteName) models.Binding {
	return models.Binding{
		ModuleName:      ModuleName(route.Name),
		ConstructorPath: ConstructorPath(route.Name),
		Source:          route,
	}
}

// ResolveAll resolves routes in order
func ResolveAll(routes []models.RouteName) models.BindingList {
	bindings := make(models.BindingList, 0, len(routes))
	for _, route := range routes {
		bindings = append(bindings, Resolve(route))
	}
	return bindings
}
