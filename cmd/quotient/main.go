package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/unbound-force/quotient/internal/calc"
	"github.com/unbound-force/quotient/internal/config"
	"github.com/unbound-force/quotient/internal/introspect"
	"github.com/unbound-force/quotient/internal/registry"
	"github.com/unbound-force/quotient/internal/report"
	"github.com/unbound-force/quotient/internal/scaffold"
	"github.com/unbound-force/quotient/internal/typedef"
)

// logger is the application-wide structured logger (writes to stderr).
var logger = charmlog.NewWithOptions(os.Stderr, charmlog.Options{
	ReportTimestamp: false,
})

// Set by build flags.
var version = "dev"

func main() {
	reg, err := calc.NewRegistry()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := newRootCmd(reg).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// globalFlags holds the persistent flags and the configuration they
// resolve to before any subcommand runs.
type globalFlags struct {
	configPath string
	format     string
	logLevel   string

	cfg *config.Config
}

// resolve loads the config file and applies flag overrides on top.
func (g *globalFlags) resolve() error {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return err
	}
	if g.format != "" {
		cfg.Output.Format = g.format
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := charmlog.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
	}
	logger.SetLevel(level)

	g.cfg = cfg
	return nil
}

func newRootCmd(reg *registry.Registry) *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "quotient",
		Short: "Quotient: host for MyModule's functions",
		Long: `Quotient hosts the functions of the MyModule object type and
invokes them by name. Each function is reachable as a subcommand
of 'call', with one flag per argument.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.resolve()
		},
	}

	root.PersistentFlags().StringVar(&g.configPath, "config", "",
		"path to config file (default: "+config.DefaultFile+" if present)")
	root.PersistentFlags().StringVar(&g.format, "format", "",
		"output format: text or json (default: from config, else text)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "",
		"log level: debug, info, warn, or error")

	root.AddCommand(newCallCmd(reg, g))
	root.AddCommand(newFunctionsCmd(reg, g))
	root.AddCommand(newSchemaCmd())
	root.AddCommand(newInitCmd())

	return root
}

// callParams holds the parsed flags for one function call.
type callParams struct {
	reg      *registry.Registry
	function string
	raw      map[string]string
	format   string
	stdout   io.Writer
}

// runCall is the extracted, testable body of the call subcommands.
// A failing function still produces an outcome on stdout; the
// returned error carries the failure to the exit status.
func runCall(ctx context.Context, p callParams) error {
	if err := config.ValidateFormat(p.format); err != nil {
		return err
	}

	def, ok := p.reg.Lookup(p.function)
	if !ok {
		return fmt.Errorf("%w %q on %s", registry.ErrUnknownFunction, p.function, p.reg.Object())
	}
	args, err := registry.ParseArgs(def, p.raw)
	if err != nil {
		return err
	}

	logger.Debug("calling function", "function", def.QualifiedName(), "args", args)
	start := time.Now()
	v, callErr := p.reg.Call(ctx, def.Name, args)
	if isHostError(callErr) {
		return callErr
	}

	out := outcomeFor(def, args, v, callErr)
	out.Metadata = typedef.Metadata{
		Version:   version,
		GoVersion: runtime.Version(),
		Timestamp: start,
		Duration:  time.Since(start),
	}
	logger.Debug("call complete", "function", out.Function, "ok", out.OK)

	if err := writeOutcome(p.stdout, p.format, def, out); err != nil {
		return err
	}
	if callErr != nil {
		return fmt.Errorf("%s failed: %w", def.QualifiedName(), callErr)
	}
	return nil
}

// isHostError reports whether err came from dispatch rather than from
// the function body.
func isHostError(err error) bool {
	return errors.Is(err, registry.ErrBadArgument) ||
		errors.Is(err, registry.ErrUnknownFunction) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func outcomeFor(def typedef.FunctionDef, args map[string]any, v any, err error) typedef.Outcome {
	if err == nil {
		return typedef.Succeeded(def, args, v)
	}
	kind := string(calc.KindOf(err))
	if kind == "" {
		kind = "Unknown"
	}
	return typedef.Failed(def, args, kind, err.Error())
}

func writeOutcome(w io.Writer, format string, def typedef.FunctionDef, out typedef.Outcome) error {
	switch format {
	case "json":
		return report.WriteCallJSON(w, out)
	default:
		return report.WriteCallText(w, def, out)
	}
}

func newCallCmd(reg *registry.Registry, g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "call <function> [--<arg> <value> ...]",
		Short: "Call a function on " + reg.Object(),
		Long: `Call one of ` + reg.Object() + `'s functions. Arguments are given as
flags named after the function's arguments, e.g.

  quotient call divide --a 10 --b 2`,
		Args: cobra.NoArgs,
	}
	for _, def := range reg.Functions() {
		cmd.AddCommand(newFunctionCmd(reg, def, g))
	}
	return cmd
}

// newFunctionCmd builds the subcommand for one definition, with one
// required flag per argument.
func newFunctionCmd(reg *registry.Registry, def typedef.FunctionDef, g *globalFlags) *cobra.Command {
	values := make(map[string]*string, len(def.Args))

	cmd := &cobra.Command{
		Use:   def.Name,
		Short: def.Description,
		Long:  def.Description + "\n\n  " + def.Signature(),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw := make(map[string]string, len(values))
			for name, v := range values {
				raw[name] = *v
			}
			return runCall(cmd.Context(), callParams{
				reg:      reg,
				function: def.Name,
				raw:      raw,
				format:   g.cfg.Output.Format,
				stdout:   cmd.OutOrStdout(),
			})
		},
	}

	for _, a := range def.Args {
		usage := string(a.Kind)
		if a.Description != "" {
			usage = fmt.Sprintf("%s (%s)", a.Description, a.Kind)
		}
		values[a.Name] = cmd.Flags().String(a.Name, "", usage)
		_ = cmd.MarkFlagRequired(a.Name)
	}
	return cmd
}

// functionsParams holds the parsed flags for the functions command.
type functionsParams struct {
	reg         *registry.Registry
	source      string
	object      string
	dir         string
	format      string
	interactive bool
	stdout      io.Writer
}

// runFunctions is the extracted, testable body of the functions command.
func runFunctions(p functionsParams) error {
	if err := config.ValidateFormat(p.format); err != nil {
		return err
	}

	rpt := report.FunctionsReport{
		Version:   version,
		Object:    p.reg.Object(),
		Functions: p.reg.Functions(),
	}

	if p.source != "" {
		logger.Info("describing module from source", "pkg", p.source, "object", p.object)
		res, err := introspect.LoadAndDescribe(p.dir, p.source, p.object)
		if err != nil {
			return err
		}
		for _, w := range res.Warnings {
			logger.Warn(w)
		}
		rpt.Package = res.Package
		rpt.Object = res.Object
		rpt.Functions = res.Functions
		rpt.Warnings = res.Warnings
	}

	logger.Info("listing functions", "object", rpt.Object, "functions", len(rpt.Functions))

	if p.interactive {
		return runInteractiveFunctions(rpt)
	}

	switch p.format {
	case "json":
		return report.WriteFunctionsJSON(p.stdout, rpt)
	default:
		return report.WriteFunctionsText(p.stdout, rpt)
	}
}

func newFunctionsCmd(reg *registry.Registry, g *globalFlags) *cobra.Command {
	var (
		source      string
		object      string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "functions",
		Short: "List the functions " + reg.Object() + " exposes",
		Long: `List the function table. With --source, describe the object type
of a Go package instead: every exported method whose arguments and
result map onto Integer, Float, String, or Boolean is listed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if object == "" {
				object = g.cfg.Module.Object
			}
			return runFunctions(functionsParams{
				reg:         reg,
				source:      source,
				object:      object,
				format:      g.cfg.Output.Format,
				interactive: interactive,
				stdout:      cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().StringVar(&source, "source", "",
		"describe the object type of this Go package instead of the built-in table")
	cmd.Flags().StringVar(&object, "object", "",
		"object type to describe with --source (default: from config, else MyModule)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false,
		"launch interactive TUI for browsing functions")

	return cmd
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema [call|functions]",
		Short: "Print the JSON Schema for quotient output",
		Long: `Print the JSON Schema (Draft 2020-12) that documents the
structure of 'call --format=json' (the default) or
'functions --format=json' output.`,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"call", "functions"},
		RunE: func(cmd *cobra.Command, args []string) error {
			schema := report.CallSchema
			if len(args) == 1 && args[0] == "functions" {
				schema = report.FunctionsSchema
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), schema)
			return err
		},
	}
}

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter " + scaffold.FileName + " into the current directory",
		Args:  cobra.NoArgs,
		// The config being created may not exist yet, or may be the
		// broken file the user wants to replace.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := scaffold.Run(scaffold.Options{
				Force:   force,
				Version: version,
				Stdout:  cmd.OutOrStdout(),
			})
			return err
		},
	}

	cmd.Flags().BoolVar(&force, "force", false,
		"overwrite an existing "+scaffold.FileName)

	return cmd
}
