package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/codalotl/mdfmt/internal/position"
	"github.com/codalotl/mdfmt/internal/watch"
)

func newWatchCommand(s *streams, root *formatOptions) *cobra.Command {
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch PATH...",
		Short: "Format markdown files whenever they are saved",
		Args:  minimumArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root.config)
			if err != nil {
				return err
			}
			hook, err := cfg.SaveHook(logger(cfg))
			if err != nil {
				return err
			}
			if !cfg.FormatOnSave {
				fmt.Fprintln(s.err, "mdfmt: format_on_save is off in the config; files will not be changed")
			}
			unit, _ := position.ParseUnit(cfg.ColumnUnit)
			w := &watch.Watcher{
				Hook:     hook,
				Unit:     unit,
				Debounce: debounce,
				Log:      logger(cfg),
				OnFormat: func(path string, changed bool, err error) {
					switch {
					case err != nil:
						fmt.Fprintf(s.err, "mdfmt: %v\n", err)
					case changed:
						fmt.Fprintf(s.out, "formatted %s\n", path)
					}
				},
			}
			fmt.Fprintf(s.err, "watching %s\n", strings.Join(args, ", "))
			return w.Run(cmd.Context(), args...)
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Quiet period before a changed file is formatted")
	return cmd
}
