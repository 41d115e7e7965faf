package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/codalotl/mdfmt/internal/buffer"
	"github.com/codalotl/mdfmt/internal/editor"
	"github.com/codalotl/mdfmt/internal/patch"
	"github.com/codalotl/mdfmt/internal/position"
)

type jsonPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type jsonPatch struct {
	Start jsonPosition `json:"start"`
	End   jsonPosition `json:"end"`
	Text  string       `json:"text"`
}

func newPatchesCommand(s *streams, root *formatOptions) *cobra.Command {
	var (
		asJSON bool
		unit   string
		width  int
	)
	cmd := &cobra.Command{
		Use:   "patches FILE",
		Short: "Print the ordered patches that would format FILE",
		Long: `Print the patches that would format FILE, in the order they must be applied. Each patch is
positioned against the buffer as it reads after all earlier patches were applied.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root.config)
			if err != nil {
				return err
			}
			if unit != "" {
				if _, err := position.ParseUnit(unit); err != nil {
					return &usageError{err: err}
				}
				cfg.ColumnUnit = unit
			}
			f, err := cfg.Formatter(logger(cfg))
			if err != nil {
				return err
			}
			f.Strategy = editor.Incremental

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			buf := buffer.New(string(data), f.Builder.Unit)
			res, err := f.FormatAll(buf)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			if asJSON {
				return writePatchesJSON(s.out, res.Patches)
			}
			if width == 0 {
				width = terminalWidth(s.out)
			}
			writePatches(s.out, res.Patches, width)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print patches as a JSON array")
	cmd.Flags().StringVar(&unit, "unit", "", "Column unit: runes, bytes, utf16, or graphemes (default from config)")
	cmd.Flags().IntVar(&width, "width", 0, "Truncate lines to this many columns (default: terminal width; negative: never)")
	return cmd
}

// writePatches prints one patch per line as "start-end text". Lines wider than width are truncated; width <= 0 disables truncation.
func writePatches(w io.Writer, patches []patch.Patch, width int) {
	for _, p := range patches {
		line := fmt.Sprintf("%v-%v %s", p.Start, p.End, strconv.Quote(p.Text))
		if width > 0 {
			line = runewidth.Truncate(line, width, "…")
		}
		fmt.Fprintln(w, line)
	}
}

func writePatchesJSON(w io.Writer, patches []patch.Patch) error {
	out := make([]jsonPatch, len(patches))
	for i, p := range patches {
		out[i] = jsonPatch{
			Start: jsonPosition{Line: p.Start.Line, Column: p.Start.Column},
			End:   jsonPosition{Line: p.End.Line, Column: p.End.Column},
			Text:  p.Text,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}
