package models

import (
	"strings"

	"github.com/toyz/routegen/internal/errors"
)

// RouteName is one bare identifier from a route list
type RouteName struct {
	Name     string                // the identifier as written
	Location errors.SourceLocation // where the identifier appears
}

// Binding is the resolved module and constructor path for one route name
type Binding struct {
	ModuleName      string    // e.g. __list_users_mod__
	ConstructorPath string    // e.g. __list_users_mod__::list_users_handler
	Source          RouteName // the route name this binding was derived from
}

// GoSelector renders the constructor path as a Go selector expression.
// "__a_mod__::a_handler" becomes "__a_mod__.a_handler".
func (b Binding) GoSelector() string {
	return strings.ReplaceAll(b.ConstructorPath, "::", ".")
}

// BindingList holds bindings in declaration order. The order is the
// registration order of the generated collection.
type BindingList []Binding

// Names returns the route names in order
func (l BindingList) Names() []string {
	names := make([]string, len(l))
	for i, b := range l {
		names[i] = b.Source.Name
	}
	return names
}
