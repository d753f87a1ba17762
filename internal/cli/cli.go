// Package cli implements the starchart command line.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/llehouerou/starchart/internal/config"
	"github.com/llehouerou/starchart/internal/errmsg"
	"github.com/llehouerou/starchart/internal/logging"
	"github.com/llehouerou/starchart/internal/position"
	"github.com/llehouerou/starchart/internal/state"
	"github.com/llehouerou/starchart/internal/taxonomy"
)

// errUsage reports a command line mistake; the usage text was already shown.
var errUsage = errors.New("usage")

// App holds what every command needs.
type App struct {
	cfg       *config.Config
	tax       *taxonomy.Taxonomy
	positions position.Table
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
}

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, a *App, args []string) error
}

var commands = []command{
	{"chart", "compute a chart from a JSON file or Last.fm", runChart},
	{"refresh", "recompute and store charts for several listeners", runRefresh},
	{"show", "list stored charts or show one", runShow},
	{"forget", "delete a stored chart", runForget},
	{"auth", "link a Last.fm account", runAuth},
	{"validate", "check the taxonomy and position tables", runValidate},
}

// Run executes the command line args (without the program name) and returns
// the process exit code.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("starchart", flag.ContinueOnError)
	global.SetOutput(stderr)
	configPath := global.String("config", "", "extra config file")
	logLevel := global.String("log-level", "", "override log level")
	global.Usage = func() { usage(stderr, global) }

	if err := global.Parse(args); err != nil {
		return 2
	}
	rest := global.Args()
	if len(rest) == 0 {
		usage(stderr, global)
		return 2
	}

	var cmd *command
	for i := range commands {
		if commands[i].name == rest[0] {
			cmd = &commands[i]
		}
	}
	if cmd == nil {
		fmt.Fprintf(stderr, "unknown command %q\n\n", rest[0])
		usage(stderr, global)
		return 2
	}

	a, err := newApp(*configPath, *logLevel, stdin, stdout, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	if err := cmd.run(ctx, a, rest[1:]); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			return 2
		}
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func usage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "usage: starchart [flags] <command> [args]")
	fmt.Fprintln(w, "\ncommands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-9s %s\n", c.name, c.summary)
	}
	fmt.Fprintln(w, "\nflags:")
	fs.PrintDefaults()
}

func newApp(configPath, logLevel string, stdin io.Reader, stdout, stderr io.Writer) (*App, error) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
	}

	logCfg := cfg.Log
	if logLevel != "" {
		logCfg.Level = logLevel
	}
	logCfg.Output = stderr
	logging.Init(logCfg)

	tax, positions, err := loadTables(cfg)
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:       cfg,
		tax:       tax,
		positions: positions,
		stdin:     stdin,
		stdout:    stdout,
		stderr:    stderr,
	}, nil
}

// loadTables returns the configured taxonomy and positions, or the built-in
// ones.
func loadTables(cfg *config.Config) (*taxonomy.Taxonomy, position.Table, error) {
	tax := taxonomy.Default()
	if cfg.TaxonomyFile != "" {
		var err error
		tax, err = taxonomy.Load(cfg.TaxonomyFile)
		if err != nil {
			return nil, nil, errors.New(errmsg.FormatWith(errmsg.OpTaxonomyLoad, cfg.TaxonomyFile, err))
		}
	}

	positions := position.Default()
	if cfg.PositionsFile != "" {
		var err error
		positions, err = position.Load(cfg.PositionsFile, tax)
		if err != nil {
			return nil, nil, errors.New(errmsg.FormatWith(errmsg.OpPositionsLoad, cfg.PositionsFile, err))
		}
	} else if err := positions.Validate(tax); err != nil {
		return nil, nil, errors.New(errmsg.Format(errmsg.OpPositionsLoad, err))
	}
	return tax, positions, nil
}

func (a *App) openState() (*state.Manager, error) {
	if a.cfg.Database != "" {
		return state.OpenPath(a.cfg.Database)
	}
	return state.Open()
}

// newFlags creates a subcommand flag set printing to stderr.
func (a *App) newFlags(name, args string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.Usage = func() {
		fmt.Fprintf(a.stderr, "usage: starchart %s [flags] %s\n", name, args)
		fs.PrintDefaults()
	}
	return fs
}
