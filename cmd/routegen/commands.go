package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/toyz/routegen/internal/cli"
	"github.com/toyz/routegen/internal/utils"
)

// errReported marks failures whose details were already printed
var errReported = errors.New("routegen failed")

type app struct {
	out    io.Writer
	errOut io.Writer

	configPath string
	module     string
	verbose    bool
	quiet      bool
	noContract bool
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "routegen",
		Short: "Generate ordered route handler registries from //axon::routes directives",
		Long: `routegen scans Go packages for //axon::routes directives and writes
autogen_routes.go next to them. Each directive becomes a function returning
the listed route handlers, constructed in declaration order:

  //axon::routes [list_users, get_user] -Name=APIRoutes

For every route name N the package must declare __N_mod__ exposing
N_handler.New().

Directory patterns:
  ./...              Scan current directory and all subdirectories recursively
  ./internal/...     Scan internal directory and all its subdirectories
  ./internal/api     Scan only the specific directory (no recursion)`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Path to a routegen.toml file (default: ./routegen.toml when present)")
	flags.StringVar(&a.module, "module", "", "Custom module name (defaults to go.mod module)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose output and detailed error reporting")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "Only show errors")
	flags.BoolVar(&a.noContract, "no-contract", false, "Skip the companion module declaration check")
	root.MarkFlagsMutuallyExclusive("verbose", "quiet")

	root.AddCommand(
		a.generateCmd(),
		a.cleanCmd(),
		a.checkCmd(),
		a.watchCmd(),
	)
	return root
}

func (a *app) generateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate [directories...]",
		Short: "Write registry files for every package with a directive",
		Example: `  routegen generate ./...
  //go:generate routegen generate .`,
		RunE: func(cmd *cobra.Command, args []string) error {
			diagnostics := a.diagnostics()
			diagnostics.Section("Routegen")

			config, err := a.loadConfig(args)
			if err != nil {
				return a.report(nil, err)
			}

			generator := a.generator(diagnostics)
			if err := generator.Run(config); err != nil {
				return a.report(generator, err)
			}

			summary := generator.GetSummary()
			diagnostics.Summary("Generation Complete!", map[string]interface{}{
				"Packages processed":   summary.PackagesProcessed,
				"Registries generated": summary.RegistriesGenerated,
				"Routes":               summary.RoutesFound,
				"Files written":        len(summary.GeneratedFiles),
			})
			if a.verbose {
				generator.ReportSuccess()
			}
			return nil
		},
	}
}

func (a *app) cleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [directories...]",
		Short: "Delete generated registry files",
		RunE: func(cmd *cobra.Command, args []string) error {
			diagnostics := a.diagnostics()

			config, err := a.loadConfig(args)
			if err != nil {
				return a.report(nil, err)
			}
			if err := config.Finalize(); err != nil {
				return a.report(nil, err)
			}

			diagnostics.StartProgress("Cleaning generated files")
			removed, err := cli.NewCleaner(config.OutputFile).CleanGeneratedFiles(config.Directories)
			if err != nil {
				diagnostics.EndProgress(false, "")
				return a.report(nil, err)
			}
			diagnostics.EndProgress(true, fmt.Sprintf("%d removed", len(removed)))

			if len(removed) > 0 {
				diagnostics.Subsection("Removed files")
				diagnostics.Indent()
				for _, path := range removed {
					diagnostics.List("%s", path)
				}
				diagnostics.Unindent()
			}
			diagnostics.Success("Removed %d generated files", len(removed))
			return nil
		},
	}
}

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [directories...]",
		Short: "Fail when generated registry files are missing or out of date",
		RunE: func(cmd *cobra.Command, args []string) error {
			diagnostics := a.diagnostics()

			config, err := a.loadConfig(args)
			if err != nil {
				return a.report(nil, err)
			}

			generator := a.generator(diagnostics)
			stale, err := cli.NewChecker(generator).Check(config)
			if err != nil {
				return a.report(generator, err)
			}

			if len(stale) > 0 {
				for _, file := range stale {
					diagnostics.Diagnostic(fmt.Errorf("%s: %s", file.Path, file.Reason), nil)
				}
				diagnostics.Diagnostic(
					fmt.Errorf("%d generated files are stale", len(stale)),
					[]string{"run routegen generate and commit the result"},
				)
				return errReported
			}

			diagnostics.Success("Generated files are up to date")
			return nil
		},
	}
}

func (a *app) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [directories...]",
		Short: "Regenerate registry files whenever sources change",
		RunE: func(cmd *cobra.Command, args []string) error {
			diagnostics := a.diagnostics()
			diagnostics.Section("Routegen watch")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			watcher := cli.NewWatcher(a.generator(diagnostics), diagnostics)
			err := watcher.Watch(ctx, func() (cli.Config, error) {
				return a.loadConfig(args)
			})
			if err != nil {
				return a.report(nil, err)
			}
			return nil
		},
	}
}

// loadConfig merges routegen.toml with command line flags and arguments
func (a *app) loadConfig(args []string) (cli.Config, error) {
	config, err := cli.LoadConfig(a.configPath)
	if err != nil {
		return cli.Config{}, err
	}

	overlay := &cli.Config{
		Directories: args,
		ModuleName:  a.module,
		Verbose:     a.verbose,
	}
	if a.noContract {
		disabled := false
		overlay.ContractChecks = &disabled
	}
	config.Merge(overlay)
	return *config, nil
}

func (a *app) diagnostics() *utils.DiagnosticSystem {
	var diagnostics *utils.DiagnosticSystem
	switch {
	case a.quiet:
		diagnostics = utils.NewQuietDiagnostics()
	case a.verbose:
		diagnostics = utils.NewVerboseDiagnostics()
	default:
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}
	if a.out != os.Stdout || a.errOut != os.Stderr {
		diagnostics.SetOutput(a.out, a.errOut)
	}
	return diagnostics
}

func (a *app) generator(diagnostics *utils.DiagnosticSystem) *cli.Generator {
	generator := cli.NewGenerator(diagnostics)
	generator.Reporter().SetOutput(a.out, a.errOut)
	return generator
}

// report prints err through the generator's reporter and marks it handled
func (a *app) report(generator *cli.Generator, err error) error {
	reporter := cli.NewDiagnosticReporter(a.verbose).SetOutput(a.out, a.errOut)
	if generator != nil {
		reporter = generator.Reporter()
	}
	reporter.ReportError(err)
	return errReported
}
