package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/codalotl/mdfmt/internal/buffer"
	"github.com/codalotl/mdfmt/internal/diff"
	"github.com/codalotl/mdfmt/internal/editor"
)

// stdinPath names standard input in diffs and reports.
const stdinPath = "<stdin>"

type formatOptions struct {
	files  []string
	glob   string
	write  bool
	check  bool
	diff   bool
	color  string
	config string
}

func (o *formatOptions) validate() error {
	if o.write && o.check {
		return usagef("--write and --check cannot be used together")
	}
	switch o.color {
	case "auto", "always", "never":
	default:
		return usagef("invalid --color %q (want auto, always, or never)", o.color)
	}
	if o.write && len(o.files) == 0 && o.glob == "" {
		return usagef("--write needs files; standard input cannot be written back")
	}
	return nil
}

// fileResult is the outcome of formatting one file.
type fileResult struct {
	path     string
	old      string
	new      string
	changed  bool
	patches  int
	strategy editor.Strategy
}

func runFormat(cmd *cobra.Command, s *streams, opts *formatOptions) error {
	if err := opts.validate(); err != nil {
		return err
	}
	colorOn, err := colorEnabled(opts.color, s.out)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(opts.config)
	if err != nil {
		return err
	}
	log := logger(cfg)
	f, err := cfg.Formatter(log)
	if err != nil {
		return err
	}

	if len(opts.files) == 0 && opts.glob == "" {
		data, err := io.ReadAll(s.in)
		if err != nil {
			return fmt.Errorf("read standard input: %w", err)
		}
		r, err := formatText(f, stdinPath, string(data))
		if err != nil {
			return err
		}
		return report(s, opts, colorOn, []fileResult{r})
	}

	paths := append([]string(nil), opts.files...)
	if opts.glob != "" {
		matched, err := expandGlob(opts.glob)
		if err != nil {
			return err
		}
		if len(matched) == 0 {
			return fmt.Errorf("no files match %q", opts.glob)
		}
		paths = append(paths, matched...)
	}

	matcher := cfg.Matcher()
	kept := paths[:0]
	for _, p := range dedupPaths(paths) {
		if matcher.Ignored(p) {
			if log != nil {
				log("cli: skipping ignored file %s", p)
			}
			continue
		}
		kept = append(kept, p)
	}
	paths = kept

	results, err := formatFiles(cmd.Context(), f, paths, opts.write)
	if err != nil {
		return err
	}
	if log != nil {
		for _, r := range results {
			if r.changed {
				log("cli: %s: %d patches (%v)", r.path, r.patches, r.strategy)
			}
		}
	}
	return report(s, opts, colorOn, results)
}

// dedupPaths drops repeated paths, keeping the first spelling of each file. Two goroutines must never write the same file.
func dedupPaths(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		key := filepath.Clean(p)
		if abs, err := filepath.Abs(p); err == nil {
			key = abs
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}

// formatFiles formats paths concurrently. Results are in the order of paths. The first error cancels the remaining files.
func formatFiles(ctx context.Context, f *editor.Formatter, paths []string, write bool) ([]fileResult, error) {
	results := make([]fileResult, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := formatFile(f, p, write)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func formatFile(f *editor.Formatter, path string, write bool) (fileResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return fileResult{}, err
	}
	if info.IsDir() {
		return fileResult{}, fmt.Errorf("%s is a directory (use --glob to format a tree)", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fileResult{}, err
	}
	r, err := formatText(f, path, string(data))
	if err != nil {
		return fileResult{}, err
	}
	if write && r.changed {
		if err := os.WriteFile(path, []byte(r.new), info.Mode().Perm()); err != nil {
			return fileResult{}, err
		}
	}
	return r, nil
}

// formatText formats text through a buffer, the same path an editor takes.
func formatText(f *editor.Formatter, path, text string) (fileResult, error) {
	buf := buffer.New(text, f.Builder.Unit)
	res, err := f.FormatAll(buf)
	if err != nil {
		return fileResult{}, fmt.Errorf("%s: %w", path, err)
	}
	return fileResult{
		path:     path,
		old:      text,
		new:      buf.Value(),
		changed:  res.Changed,
		patches:  len(res.Patches),
		strategy: res.Strategy,
	}, nil
}

func report(s *streams, opts *formatOptions, colorOn bool, results []fileResult) error {
	changed := 0
	for _, r := range results {
		if r.changed {
			changed++
		}
		switch {
		case opts.diff:
			if r.changed {
				fmt.Fprintln(s.out, diff.DiffText(r.old, r.new).RenderUnifiedDiff(colorOn, r.path, r.path, 3))
			}
		case opts.check:
			if r.changed {
				fmt.Fprintln(s.out, r.path)
			}
		case opts.write:
		default:
			_, _ = io.WriteString(s.out, r.new)
		}
	}
	if opts.check && changed > 0 {
		fmt.Fprintf(s.err, "%d of %d files would be reformatted\n", changed, len(results))
		return errUnformatted
	}
	return nil
}
