package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/codalotl/mdfmt/internal/config"
	"github.com/codalotl/mdfmt/internal/simplelogger"
)

// Version is the mdfmt version. It is a var so release builds can set it with -ldflags "-X .../internal/cli.Version=1.2.3".
var Version = "0.3.0"

// In/Out/Err override standard I/O. If nil, defaults are used. Overriding is useful for testing.
type RunOptions struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// usageError marks malformed arguments or flags. It maps to exit code 2.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// errUnformatted is returned by --check when some file would change. Its report is already printed.
var errUnformatted = errors.New("some files are not formatted")

// Run runs the CLI with args (typically os.Args).
//
// It returns a recommended exit code (0, 1, or 2) and an error, if any:
//   - 0 -> err == nil
//   - 1 -> err != nil, but the structure of args is sound (ex: a file could not be read, or --check found unformatted files).
//   - 2 -> err != nil, args parse error or misuse of flags, etc.
//
// In cases of errors, Run has already displayed an error message to opts.Err || Stderr.
func Run(args []string, opts *RunOptions) (int, error) {
	argv := args
	if len(argv) > 0 {
		argv = argv[1:]
	}

	s := &streams{in: os.Stdin, out: os.Stdout, err: os.Stderr}
	if opts != nil {
		if opts.In != nil {
			s.in = opts.In
		}
		if opts.Out != nil {
			s.out = opts.Out
		}
		if opts.Err != nil {
			s.err = opts.Err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCommand(s)
	root.SetArgs(argv)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0, nil
	}

	var ue *usageError
	switch {
	case errors.As(err, &ue):
		fmt.Fprintf(s.err, "mdfmt: %v\nRun 'mdfmt --help' for usage.\n", err)
		return 2, err
	case errors.Is(err, errUnformatted):
		return 1, err
	}
	fmt.Fprintf(s.err, "mdfmt: %v\n", err)
	return 1, err
}

type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

func newRootCommand(s *streams) *cobra.Command {
	opts := &formatOptions{color: "auto"}
	root := &cobra.Command{
		Use:   "mdfmt [files...]",
		Short: "Format markdown files",
		Long: `mdfmt formats markdown: it normalizes headings, trims trailing whitespace, and collapses blank lines.

With no files, mdfmt formats standard input. Configuration is read from the nearest
.mdfmt.yaml, .mdfmt.yml, or .mdfmt.toml, unless --config names a file.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.files = append(opts.files, args...)
			return runFormat(cmd, s, opts)
		},
	}
	root.SetIn(s.in)
	root.SetOut(s.out)
	root.SetErr(s.err)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	root.PersistentFlags().StringVar(&opts.config, "config", "", "Config file (default: nearest .mdfmt.yaml/.yml/.toml)")

	f := root.Flags()
	f.StringArrayVarP(&opts.files, "file", "f", nil, "File to format (repeatable)")
	f.StringVarP(&opts.glob, "glob", "g", "", "Format files matching a gitignore-style pattern, ex: 'docs/**/*.md'")
	f.BoolVarP(&opts.write, "write", "w", false, "Write the result back to each file")
	f.BoolVar(&opts.check, "check", false, "List files that would change; exit 1 if any")
	f.BoolVarP(&opts.diff, "diff", "d", false, "Print unified diffs instead of formatted output")
	f.StringVar(&opts.color, "color", "auto", "Color diffs: auto, always, or never")

	root.AddCommand(newPatchesCommand(s, opts))
	root.AddCommand(newWatchCommand(s, opts))
	root.AddCommand(newVersionCommand(s))
	return root
}

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

func minimumArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MinimumNArgs(n)(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

// loadConfig loads the --config file, or the nearest config file to the working directory. It also routes simplelogger to the configured log file.
func loadConfig(path string) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load(".")
	}
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	if cfg.LogFile != "" {
		simplelogger.SetPath(cfg.LogFile)
	}
	return cfg, nil
}

// logger returns simplelogger.Log when debug logging is on, and nil otherwise.
func logger(cfg config.Config) func(string, ...any) {
	if !cfg.Debug {
		return nil
	}
	return simplelogger.Log
}
