package errors

import "fmt"

// Common error constructors used throughout the generator

// NewMalformedListError reports a token that cannot appear in a route list
func NewMalformedListError(loc SourceLocation, token, reason string) *BaseError {
	message := fmt.Sprintf("malformed route list: %s", reason)
	if token != "" {
		message = fmt.Sprintf("malformed route list: unexpected %q: %s", token, reason)
	}
	return New(MalformedListErrorCode, message).
		WithLocation(loc).
		WithContext("token", token).
		WithSuggestions("Route lists are comma-separated bare identifiers, e.g. //axon::routes [list_users, get_user]")
}

// NewUnresolvedBindingError reports a route whose companion module is missing
func NewUnresolvedBindingError(loc SourceLocation, route, module string) *BaseError {
	return Newf(UnresolvedBindingErrorCode, "route %q has no companion module %s in this package", route, module).
		WithLocation(loc).
		WithContext("route", route).
		WithContext("module", module).
		WithSuggestions(
			fmt.Sprintf("Declare a package-level %s exposing %s_handler.New()", module, route),
			"Check the route name for typos",
		)
}

// NewNameCollisionError reports two declarations deriving the same identifier
func NewNameCollisionError(loc SourceLocation, name string, previous SourceLocation) *BaseError {
	return Newf(NameCollisionErrorCode, "%q is declared more than once (previous declaration at %s)", name, previous).
		WithLocation(loc).
		WithContext("name", name).
		WithContext("previous", previous.String()).
		WithSuggestions("Remove the duplicate entry")
}

// NewReservedNameError creates an error for a generated name the Go compiler would reject
func NewReservedNameError(loc SourceLocation, name, reason string) *BaseError {
	return Newf(NameCollisionErrorCode, "%q cannot be used here: %s", name, reason).
		WithLocation(loc).
		WithContext("name", name)
}

// WrapParseError wraps an error with a "failed to parse" message
func WrapParseError(item string, cause error) *BaseError {
	return Wrap(SyntaxErrorCode, fmt.Sprintf("failed to parse %s", item), cause)
}

// WrapGenerateError wraps an error with a "failed to generate" message
func WrapGenerateError(item string, cause error) *BaseError {
	return Wrap(GenerationErrorCode, fmt.Sprintf("failed to generate %s", item), cause).
		WithContext("target", item)
}

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s '%s'", operation, path)
	return Wrap(FileSystemErrorCode, message, cause).
		WithContext("operation", operation).
		WithContext("path", path)
}

// WrapConfigurationError wraps configuration-related errors
func WrapConfigurationError(configType, operation string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s configuration '%s'", operation, configType)
	return Wrap(ConfigurationErrorCode, message, cause).
		WithContext("config_type", configType).
		WithContext("operation", operation)
}
