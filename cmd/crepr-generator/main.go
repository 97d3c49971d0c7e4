// Package main provides the CLI entrypoint for crepr-generator.
//
// crepr-generator reads foreign structs annotated with //crepr: directives
// and generates their CReprOf and AsNative conversion methods.
//
// Usage:
//
//	crepr-generator gen [-config file] [-out name] [-dir dir] [-dry-run] [-v] patterns...
//	crepr-generator check [-config file] [-out name] [-dir dir] [-v] patterns...
//	crepr-generator analyze [-config file] [-dir dir] [-format yaml|dump] [-v] patterns...
//	crepr-generator config [-config file] [-out name]
//	crepr-generator version
//
// Typical use is a go:generate directive in the package holding the foreign
// structs:
//
//	//go:generate go run crepr-generator/cmd/crepr-generator gen .
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/davecgh/go-spew/spew"

	"crepr-generator/internal/analyze"
	"crepr-generator/internal/config"
	"crepr-generator/internal/diagnostic"
	"crepr-generator/internal/gen"
	"crepr-generator/internal/plan"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// errStale is returned by check when a generated file is out of date.
var errStale = errors.New("generated files are stale")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)

	stop()
	os.Exit(code)
}

// run executes the CLI with args (without the program name) and returns the
// process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return exitUsage
	}

	var err error

	switch cmd, rest := args[0], args[1:]; cmd {
	case "gen":
		err = runGen(ctx, rest, stdout, stderr)
	case "check":
		err = runCheck(ctx, rest, stdout, stderr)
	case "analyze":
		err = runAnalyze(ctx, rest, stdout, stderr)
	case "config":
		err = runConfig(rest, stdout, stderr)
	case "version":
		fmt.Fprintln(stdout, "crepr-generator", version)
	case "help", "-h", "-help", "--help":
		usage(stdout)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", cmd)
		usage(stderr)

		return exitUsage
	}

	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, flag.ErrHelp):
		return exitOK
	case errors.As(err, new(usageError)):
		fmt.Fprintln(stderr, err)
		return exitUsage
	default:
		fmt.Fprintln(stderr, "crepr-generator:", err)
		return exitError
	}
}

func usage(w io.Writer) {
	fmt.Fprint(w, `Usage: crepr-generator <command> [flags] [patterns...]

Commands:
  gen      generate CReprOf/AsNative methods and write them
  check    report generated files that are missing or stale
  analyze  print the classified fields of annotated structs
  config   print the effective configuration
  version  print the version

Run "crepr-generator <command> -h" for the flags of a command.
`)
}

// usageError reports bad command line arguments.
type usageError struct {
	msg string
}

func (e usageError) Error() string { return e.msg }

// common holds the flags shared by all commands.
type common struct {
	configPath string
	out        string
	dir        string
	verbose    bool
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "path to a YAML config file")
	fs.StringVar(&c.out, "out", "", "generated file name (overrides config output)")
	fs.StringVar(&c.dir, "dir", "", "directory package patterns are resolved in")
	fs.BoolVar(&c.verbose, "v", false, "enable debug logging")
}

func (c *common) loader(cfg *config.Config, logger *slog.Logger) *analyze.Loader {
	return &analyze.Loader{Dir: c.dir, Skip: []string{cfg.Output}, Logger: logger}
}

func (c *common) logger(stderr io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if c.verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
}

func (c *common) config() (*config.Config, error) {
	cfg := config.Default()

	if c.configPath != "" {
		var err error

		cfg, err = config.LoadFile(c.configPath)
		if err != nil {
			return nil, err
		}
	}

	if c.out != "" {
		cfg.Output = c.out
		if err := cfg.Validate(); err != nil {
			return nil, usageError{msg: err.Error()}
		}
	}

	return cfg, nil
}

// parse parses the flags of a command and returns the package patterns.
func parse(fs *flag.FlagSet, args []string) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}

		return nil, usageError{msg: err.Error()}
	}

	patterns := fs.Args()
	if len(patterns) == 0 {
		return nil, usageError{msg: fs.Name() + ": no package patterns given"}
	}

	return patterns, nil
}

// generate loads patterns and runs the generator. Diagnostics are logged;
// errors among them fail the run.
func generate(ctx context.Context, c *common, patterns []string, logger *slog.Logger) ([]gen.GeneratedFile, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}

	pkgs, err := c.loader(cfg, logger).LoadPackages(ctx, patterns...)
	if err != nil {
		return nil, err
	}

	files, diags, err := gen.NewGenerator(cfg, logger).Generate(pkgs)
	logDiagnostics(logger, diags)

	if err != nil {
		return nil, err
	}

	if diags.HasErrors() {
		return nil, diags.Error()
	}

	return files, nil
}

func logDiagnostics(logger *slog.Logger, diags diagnostic.Diagnostics) {
	for _, d := range diags.Infos {
		logger.Info(d.Message, "code", d.Code, "struct", d.Struct, "field", d.Field, "pos", d.Pos)
	}

	for _, d := range diags.Warnings {
		logger.Warn(d.Message, "code", d.Code, "struct", d.Struct, "field", d.Field, "pos", d.Pos)
	}
}

func runGen(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var (
		c      common
		dryRun bool
	)

	fs := flag.NewFlagSet("gen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	c.register(fs)
	fs.BoolVar(&dryRun, "dry-run", false, "print generated files instead of writing them")

	patterns, err := parse(fs, args)
	if err != nil {
		return err
	}

	logger := c.logger(stderr)

	files, err := generate(ctx, &c, patterns, logger)
	if err != nil {
		return err
	}

	if dryRun {
		for _, f := range files {
			fmt.Fprintf(stdout, "---\n// file: %s\n---\n", f.Path())
			_, _ = stdout.Write(f.Content)
		}

		return nil
	}

	if err := gen.WriteFiles(files); err != nil {
		return err
	}

	for _, f := range files {
		logger.Info("wrote", "file", f.Path())
	}

	return nil
}

func runCheck(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var c common

	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	c.register(fs)

	patterns, err := parse(fs, args)
	if err != nil {
		return err
	}

	files, err := generate(ctx, &c, patterns, c.logger(stderr))
	if err != nil {
		return err
	}

	stale, err := gen.Check(files)
	if err != nil {
		return err
	}

	for _, p := range stale {
		fmt.Fprintln(stdout, p)
	}

	if len(stale) > 0 {
		return fmt.Errorf("%w: %d file(s), run crepr-generator gen", errStale, len(stale))
	}

	return nil
}

func runAnalyze(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var (
		c      common
		format string
	)

	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(stderr)
	c.register(fs)
	fs.StringVar(&format, "format", "yaml", "output format: yaml or dump")

	patterns, err := parse(fs, args)
	if err != nil {
		return err
	}

	if format != "yaml" && format != "dump" {
		return usageError{msg: fmt.Sprintf("analyze: unknown format %q", format)}
	}

	cfg, err := c.config()
	if err != nil {
		return err
	}

	logger := c.logger(stderr)

	pkgs, err := c.loader(cfg, logger).LoadPackages(ctx, patterns...)
	if err != nil {
		return err
	}

	var (
		plans []plan.StructPlan
		diags diagnostic.Diagnostics
	)

	for _, pkg := range pkgs {
		decls, d := analyze.Collect(pkg)
		diags.Merge(d)

		p, d := plan.Build(decls, analyze.LocalTypes(pkg), cfg.CharMarker)
		diags.Merge(d)

		plans = append(plans, p...)
	}

	logDiagnostics(logger, diags)

	if err := writePlans(stdout, format, plans); err != nil {
		return err
	}

	if diags.HasErrors() {
		return diags.Error()
	}

	return nil
}

// runConfig prints the configuration the other commands would use, with
// defaults applied.
func runConfig(args []string, stdout, stderr io.Writer) error {
	var c common

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&c.configPath, "config", "", "path to a YAML config file")
	fs.StringVar(&c.out, "out", "", "generated file name (overrides config output)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}

		return usageError{msg: err.Error()}
	}

	if fs.NArg() > 0 {
		return usageError{msg: "config: unexpected arguments"}
	}

	cfg, err := c.config()
	if err != nil {
		return err
	}

	data, err := config.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	_, err = stdout.Write(data)

	return err
}

func writePlans(w io.Writer, format string, plans []plan.StructPlan) error {
	if format == "dump" {
		cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
		cfg.Fdump(w, plan.Export(plans))

		return nil
	}

	data, err := plan.ExportYAML(plans)
	if err != nil {
		return fmt.Errorf("encoding plans: %w", err)
	}

	_, err = w.Write(data)

	return err
}
