package axon

import (
	"fmt"
	"strings"
)

// AxonPathPartType represents the type of path part
type AxonPathPartType int

const (
	StaticPart AxonPathPartType = iota
	ParameterPart
	WildcardPart
)

// AxonPathPart represents a single segment of an Axon path
type AxonPathPart struct {
	Type      AxonPathPartType
	Value     string // literal text for static parts, the name for parameters
	ParamType string // optional type hint from {name:type}
}

// AxonPath is a route path in Axon format: /users/{id}, /users/{id:int},
// /files/{*}
type AxonPath string

// NewAxonPath creates a new AxonPath from a string
func NewAxonPath(path string) AxonPath {
	return AxonPath(path)
}

// Raw returns the original Axon path format
func (p AxonPath) Raw() string {
	return string(p)
}

// Parts splits the path into segments. The root path has no parts.
func (p AxonPath) Parts() ([]AxonPathPart, error) {
	path := string(p)
	if !strings.HasPrefix(path, "/") {
		return nil, fmt.Errorf("path %q must start with '/'", path)
	}

	trimmed := strings.TrimPrefix(path, "/")
	if trimmed == "" {
		return nil, nil
	}

	segments := strings.Split(trimmed, "/")
	parts := make([]AxonPathPart, 0, len(segments))
	for i, segment := range segments {
		part, err := parseSegment(segment)
		if err != nil {
			return nil, fmt.Errorf("path %q: %w", path, err)
		}
		if part.Type == WildcardPart && i != len(segments)-1 {
			return nil, fmt.Errorf("path %q: {*} must be the last segment", path)
		}
		parts = append(parts, part)
	}
	return parts, nil
}

// Format renders the path in a router's syntax. param converts a parameter
// name and wildcard replaces a {*} segment.
func (p AxonPath) Format(param func(name string) string, wildcard string) (string, error) {
	parts, err := p.Parts()
	if err != nil {
		return "", err
	}
	if len(parts) == 0 {
		return "/", nil
	}

	var b strings.Builder
	for _, part := range parts {
		b.WriteByte('/')
		switch part.Type {
		case ParameterPart:
			b.WriteString(param(part.Value))
		case WildcardPart:
			b.WriteString(wildcard)
		default:
			b.WriteString(part.Value)
		}
	}
	return b.String(), nil
}

func parseSegment(segment string) (AxonPathPart, error) {
	if !strings.HasPrefix(segment, "{") {
		if strings.ContainsAny(segment, "{}") {
			return AxonPathPart{}, fmt.Errorf("segment %q mixes text and parameters", segment)
		}
		return AxonPathPart{Type: StaticPart, Value: segment}, nil
	}

	if !strings.HasSuffix(segment, "}") {
		return AxonPathPart{}, fmt.Errorf("segment %q has no closing '}'", segment)
	}
	content := segment[1 : len(segment)-1]
	if content == "*" {
		return AxonPathPart{Type: WildcardPart, Value: "*"}, nil
	}

	name, paramType, _ := strings.Cut(content, ":")
	if name == "" || strings.ContainsAny(name, "{}*") {
		return AxonPathPart{}, fmt.Errorf("segment %q has an invalid parameter name", segment)
	}
	return AxonPathPart{Type: ParameterPart, Value: name, ParamType: paramType}, nil
}
