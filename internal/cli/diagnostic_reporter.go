package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/toyz/routegen/internal/errors"
)

// DiagnosticReporter provides user-friendly error reporting and diagnostics
type DiagnosticReporter struct {
	verbose bool
	out     io.Writer
	errOut  io.Writer
}

// NewDiagnosticReporter creates a new diagnostic reporter
func NewDiagnosticReporter(verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{
		verbose: verbose,
		out:     os.Stdout,
		errOut:  os.Stderr,
	}
}

// SetOutput redirects the reporter's output
func (r *DiagnosticReporter) SetOutput(out, errOut io.Writer) *DiagnosticReporter {
	r.out = out
	r.errOut = errOut
	return r
}

// ReportWarning provides user-friendly warning reporting
func (r *DiagnosticReporter) ReportWarning(message string, suggestions ...string) {
	orange := color.New(color.FgYellow, color.Bold)
	orange.Fprint(r.errOut, "! ")
	fmt.Fprintf(r.errOut, "%s\n", message)
	for _, s := range suggestions {
		fmt.Fprintf(r.errOut, "  - %s\n", s)
	}
}

// ReportError prints every error in err with its location, context and hints
func (r *DiagnosticReporter) ReportError(err error) {
	if err == nil {
		return
	}

	failures := flatten(err)

	red := color.New(color.FgRed, color.Bold)
	red.Fprint(r.errOut, "\nERROR: ")
	if len(failures) == 1 {
		fmt.Fprintf(r.errOut, "Route Generation Failed\n\n")
	} else {
		fmt.Fprintf(r.errOut, "Route Generation Failed (%d errors)\n\n", len(failures))
	}

	for i, failure := range failures {
		if len(failures) > 1 {
			fmt.Fprintf(r.errOut, "%d) ", i+1)
		}
		r.reportOne(failure)
	}
}

func (r *DiagnosticReporter) reportOne(err error) {
	var rerr errors.RouteGenError
	if !stderrors.As(err, &rerr) {
		fmt.Fprintf(r.errOut, "Message: %s\n\n", err.Error())
		return
	}

	typeName := rerr.ErrorCode().String()
	fmt.Fprintf(r.errOut, "Type: %s\n", typeName)
	fmt.Fprintf(r.errOut, "%s\n", strings.Repeat("-", len(typeName)+6))

	fmt.Fprintf(r.errOut, "Message: %s\n", err.Error())
	if loc := rerr.Location(); !loc.IsEmpty() {
		fmt.Fprintf(r.errOut, "Location: %s\n", loc)
	}

	if r.verbose {
		r.printContext(rerr.Context())
		if cause := rerr.Unwrap(); cause != nil {
			fmt.Fprintf(r.errOut, "Underlying cause: %s\n", cause.Error())
		}
	}

	if hints := rerr.Suggestions(); len(hints) > 0 {
		r.printSuggestions(hints)
	}
	fmt.Fprintln(r.errOut)
}

// printContext prints context information with keys in order
func (r *DiagnosticReporter) printContext(context map[string]interface{}) {
	if len(context) == 0 {
		return
	}

	keys := make([]string, 0, len(context))
	for key := range context {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fmt.Fprintf(r.errOut, "Context:\n")
	for _, key := range keys {
		fmt.Fprintf(r.errOut, "   %s: %v\n", formatContextKey(key), context[key])
	}
}

// printSuggestions prints actionable suggestions
func (r *DiagnosticReporter) printSuggestions(suggestions []string) {
	fmt.Fprintf(r.errOut, "Suggestions:\n")
	for i, suggestion := range suggestions {
		fmt.Fprintf(r.errOut, "   %d. %s\n", i+1, suggestion)
	}
}

// ReportSuccess reports successful generation with summary information
func (r *DiagnosticReporter) ReportSuccess(summary GenerationSummary) {
	fmt.Fprintf(r.out, "\nRoute Generation Completed Successfully!\n")
	fmt.Fprintf(r.out, "========================================\n\n")

	fmt.Fprintf(r.out, "Processed %d packages\n", summary.PackagesProcessed)
	if summary.RegistriesGenerated > 0 {
		fmt.Fprintf(r.out, "Generated %d registries with %d routes\n", summary.RegistriesGenerated, summary.RoutesFound)
	}

	if len(summary.GeneratedFiles) > 0 {
		fmt.Fprintf(r.out, "\nWritten files:\n")
		for _, file := range summary.GeneratedFiles {
			fmt.Fprintf(r.out, "  - %s\n", file)
		}
	}
	if len(summary.UnchangedFiles) > 0 {
		fmt.Fprintf(r.out, "\nUp to date:\n")
		for _, file := range summary.UnchangedFiles {
			fmt.Fprintf(r.out, "  - %s\n", file)
		}
	}
	if len(summary.RemovedFiles) > 0 {
		fmt.Fprintf(r.out, "\nRemoved stale files:\n")
		for _, file := range summary.RemovedFiles {
			fmt.Fprintf(r.out, "  - %s\n", file)
		}
	}
}

// formatContextKey converts snake_case keys to Title Case
func formatContextKey(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}

// flatten expands collected errors so each one is reported on its own
func flatten(err error) []error {
	var multi *errors.MultipleErrors
	if !stderrors.As(err, &multi) {
		return []error{err}
	}

	var result []error
	for _, e := range multi.Errors {
		result = append(result, flatten(e)...)
	}
	return result
}

// GenerationSummary contains information about the generation process
type GenerationSummary struct {
	PackagesProcessed   int
	RegistriesGenerated int
	RoutesFound         int
	GeneratedFiles      []string
	UnchangedFiles      []string
	RemovedFiles        []string
}
