package templates

import (
	"bytes"
	"fmt"
	"path"
	"text/template"
)

// GeneratedHeader marks files written by the generator
const GeneratedHeader = "// Code generated by routegen. DO NOT EDIT."

// RegistryFileTemplate renders a complete generated registry file. Output is
// not gofmt-clean; callers format it.
const RegistryFileTemplate = `{{.Header}}

package {{.PackageName}}

import {{if .RuntimeAlias}}{{.RuntimeAlias}} {{end}}"{{.RuntimeImport}}"
{{range .Registries}}
// {{.FuncName}} constructs the route handlers listed at {{.Source}}.
// Handlers are returned in declaration order.
func {{.FuncName}}() []{{$.HandlerType}} {
	return {{.Expression}}
}
{{end}}`

// RegistryFileData is the input to RegistryFileTemplate
type RegistryFileData struct {
	Header        string
	PackageName   string
	RuntimeImport string
	RuntimeAlias  string
	HandlerType   string
	Registries    []RegistryFuncData
}

// RegistryFuncData describes one registry function in the file
type RegistryFuncData struct {
	FuncName   string
	Source     string
	Expression string
}

// HandlerType is the element type of every generated collection
const HandlerType = "axon.RouteHandler"

// RuntimeAlias returns the import alias needed to reference the runtime
// package as "axon", or "" when its import path already ends in axon.
func RuntimeAlias(importPath string) string {
	if path.Base(importPath) == "axon" {
		return ""
	}
	return "axon"
}

var registryFile = template.Must(template.New("registry-file").Parse(RegistryFileTemplate))

// RenderRegistryFile renders the generated file for one package
func RenderRegistryFile(data RegistryFileData) (string, error) {
	if data.Header == "" {
		data.Header = GeneratedHeader
	}
	if data.HandlerType == "" {
		data.HandlerType = HandlerType
	}

	var buf bytes.Buffer
	if err := registryFile.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", registryFile.Name(), err)
	}
	return buf.String(), nil
}
