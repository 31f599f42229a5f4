// repogen generates repository types from entity declarations.
//
// Usage:
//
//	repogen generate [flags] [packages]
//	repogen describe [-format yaml|json|msgpack] [flags] [packages]
//	repogen watch [-debounce d] [flags] [packages]
//
// Entities are declared either with //repogen: directives on struct types
// of the given packages, or in YAML files passed with -decl.
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
	"strings"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/syssam/repogen/compiler"
	"github.com/syssam/repogen/compiler/gen"
)

const usage = `repogen generates repository types from entity declarations.

Usage:
  repogen generate [flags] [packages]
  repogen describe [-format yaml|json|msgpack] [flags] [packages]
  repogen watch [-debounce duration] [flags] [packages]

Run "repogen <command> -h" for the flags of a command.
`

// errUsage is returned for invalid invocations.
var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
	case errors.Is(err, errUsage):
		os.Exit(2)
	default:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return errUsage
	}
	switch cmd, args := args[0], args[1:]; cmd {
	case "generate":
		return generateCmd(ctx, args, stderr)
	case "describe":
		return describeCmd(ctx, args, stdout, stderr)
	case "watch":
		return watchCmd(ctx, args, stderr)
	case "help", "-h", "-help", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		fmt.Fprintf(stderr, "repogen: unknown command %q\n\n%s", cmd, usage)
		return errUsage
	}
}

// stringsFlag is a repeatable string flag.
type stringsFlag []string

func (s *stringsFlag) String() string { return strings.Join(*s, ",") }

func (s *stringsFlag) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// options are the flags shared by all commands.
type options struct {
	config    string
	target    string
	pkg       string
	header    string
	profile   string
	tags      string
	logLevel  string
	logFormat string
	workers   int
	decls     stringsFlag
}

func newFlagSet(name string, stderr io.Writer) (*flag.FlagSet, *options) {
	o := &options{}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.config, "config", "", "configuration `file` (.yaml, .yml or .toml)")
	fs.StringVar(&o.target, "target", "", "output `dir`ectory")
	fs.StringVar(&o.pkg, "package", "", "import `path` of the output package")
	fs.StringVar(&o.header, "header", "", "header comment of generated files")
	fs.StringVar(&o.profile, "profile", "", "method profile: blocking or suspending")
	fs.StringVar(&o.tags, "tags", "", "comma-separated build tags used when loading packages")
	fs.StringVar(&o.logLevel, "log-level", "", "log level: debug, info, warn or error")
	fs.StringVar(&o.logFormat, "log-format", "", "log format: text or json")
	fs.IntVar(&o.workers, "workers", 0, "number of entities processed in parallel")
	fs.Var(&o.decls, "decl", "YAML declaration `file` (repeatable)")
	return fs, o
}

// session is a configured compiler and its input.
type session struct {
	compiler *compiler.Compiler
	source   compiler.Source
	logger   *slog.Logger
}

// setup merges the configuration file with the flags and builds the
// compiler and its input.
func (o *options) setup(fs *flag.FlagSet, stderr io.Writer) (*session, error) {
	cfg := &Config{}
	if o.config != "" {
		var err error
		if cfg, err = LoadConfig(o.config); err != nil {
			return nil, err
		}
	}
	override(&cfg.Target, o.target)
	override(&cfg.Package, o.pkg)
	override(&cfg.Header, o.header)
	override(&cfg.Profile, o.profile)
	override(&cfg.Log.Level, o.logLevel)
	override(&cfg.Log.Format, o.logFormat)
	if o.workers > 0 {
		cfg.Workers = o.workers
	}
	if o.tags != "" {
		cfg.Tags = strings.Split(o.tags, ",")
	}
	if len(o.decls) > 0 {
		cfg.Declarations = o.decls
	}
	if fs.NArg() > 0 {
		cfg.Patterns = fs.Args()
	}
	if len(cfg.Patterns) == 0 && len(cfg.Declarations) == 0 {
		fs.Usage()
		return nil, fmt.Errorf("%w: no packages or declaration files", errUsage)
	}

	logger, err := NewLogger(stderr, cfg.Log)
	if err != nil {
		return nil, err
	}
	var opts []gen.Option
	if cfg.Target != "" {
		opts = append(opts, gen.WithTarget(cfg.Target))
	}
	if cfg.Package != "" {
		opts = append(opts, gen.WithPackage(cfg.Package))
	}
	if cfg.Header != "" {
		opts = append(opts, gen.WithHeader(cfg.Header))
	}
	if cfg.Profile != "" {
		opts = append(opts, gen.WithProfileName(cfg.Profile))
	}
	if cfg.Workers > 0 {
		opts = append(opts, gen.WithWorkers(cfg.Workers))
	}
	c, err := compiler.New(logger, opts...)
	if err != nil {
		return nil, err
	}
	src := compiler.Source{Patterns: cfg.Patterns, Files: cfg.Declarations}
	if len(cfg.Tags) > 0 {
		src.BuildFlags = []string{"-tags=" + strings.Join(cfg.Tags, ",")}
	}
	return &session{compiler: c, source: src, logger: logger}, nil
}

// parse parses args into fs. The flag package has already reported a
// parse failure, so it is returned as a usage error.
func parse(fs *flag.FlagSet, args []string) error {
	err := fs.Parse(args)
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", errUsage, err)
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func generateCmd(ctx context.Context, args []string, stderr io.Writer) error {
	fs, o := newFlagSet("generate", stderr)
	if err := parse(fs, args); err != nil {
		return err
	}
	s, err := o.setup(fs, stderr)
	if err != nil {
		return err
	}
	_, err = s.compiler.Generate(ctx, s.source)
	return err
}

func describeCmd(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs, o := newFlagSet("describe", stderr)
	format := fs.String("format", "yaml", "output format: yaml, json or msgpack")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *format != "yaml" && *format != "json" && *format != "msgpack" {
		fs.Usage()
		return fmt.Errorf("%w: unsupported format %q", errUsage, *format)
	}
	s, err := o.setup(fs, stderr)
	if err != nil {
		return err
	}
	descs, err := s.compiler.Describe(ctx, s.source)
	if descs == nil && err != nil {
		var diags compiler.Diagnostics
		if !errors.As(err, &diags) {
			return err
		}
	}
	if werr := writeDescriptions(stdout, *format, descs); werr != nil {
		return errors.Join(err, werr)
	}
	return err
}

func writeDescriptions(w io.Writer, format string, descs []*compiler.Description) error {
	if descs == nil {
		descs = []*compiler.Description{}
	}
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(descs)
	case "msgpack":
		enc := msgpack.NewEncoder(w)
		enc.SetCustomStructTag("json")
		return enc.Encode(descs)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(descs); err != nil {
		return err
	}
	return enc.Close()
}

func watchCmd(ctx context.Context, args []string, stderr io.Writer) error {
	fs, o := newFlagSet("watch", stderr)
	debounce := fs.Duration("debounce", 200*time.Millisecond, "quiet period before regenerating")
	if err := parse(fs, args); err != nil {
		return err
	}
	s, err := o.setup(fs, stderr)
	if err != nil {
		return err
	}
	w := &watcher{compiler: s.compiler, source: s.source, logger: s.logger, debounce: *debounce}
	return w.run(ctx)
}
