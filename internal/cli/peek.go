package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/kk-code-lab/rview/internal/events"
	fsutil "github.com/kk-code-lab/rview/internal/fs"
	"github.com/kk-code-lab/rview/internal/highlight"
	"github.com/kk-code-lab/rview/internal/previewer"
)

// discard drops results; peek reads the lock returned by Run instead.
type discard struct{}

func (discard) Emit(context.Context, events.Event) bool { return true }
func (discard) Post(events.Event)                       {}

func newPeekCmd(g *globals) *cobra.Command {
	var (
		skip   int
		width  int
		height int
	)

	cmd := &cobra.Command{
		Use:   "peek <path>",
		Short: "Print the preview rview would show for a path",
		Long: heredoc.Doc(`
			Resolves the previewer for the path from the configured rules, runs it
			and prints the resulting window of lines.
		`),
		Example: heredoc.Doc(`
			rview peek main.go --skip 40 --height 20
			rview peek README.md --width 100
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := fsutil.StatEntry(args[0])
			if err != nil {
				return err
			}

			runner := previewer.NewRunner(discard{}, g.cfg.PreviewerOptions())
			runner.SetArea(previewer.Area{W: width, H: height})
			registry := previewer.NewRegistry(g.cfg.Previewers, runner.Known)

			mime := fsutil.DetectMime(entry)
			p, ok := registry.PreviewerFor(entry.FullPath, mime)
			if !ok {
				return fmt.Errorf("no previewer for %s (%s)", entry.FullPath, mime)
			}

			lock, err := runner.Run(cmd.Context(), p, entry, skip)
			if err != nil {
				return err
			}
			return printLock(cmd.OutOrStdout(), lock)
		},
	}

	cmd.Flags().IntVar(&skip, "skip", 0, "lines to skip")
	cmd.Flags().IntVar(&width, "width", 80, "preview width in cells")
	cmd.Flags().IntVar(&height, "height", 40, "preview height in lines")
	return cmd
}

func printLock(w io.Writer, lock *previewer.Lock) error {
	out := termenv.NewOutput(w)
	switch lock.Kind {
	case previewer.KindFolder:
		entries, err := fsutil.ReadDir(lock.URL)
		if err != nil {
			return err
		}
		printer := &listPrinter{w: w, out: out}
		for _, e := range entries {
			fmt.Fprintln(w, printer.entry(e))
		}
	case previewer.KindImage:
		if lock.Image != nil {
			b := lock.Image.Bounds()
			fmt.Fprintf(w, "image %dx%d\n", b.Dx(), b.Dy())
		}
	case previewer.KindEmpty:
		fmt.Fprintln(w, "empty file")
	default:
		for _, line := range lock.Lines {
			fmt.Fprintln(w, styleLine(out, line))
		}
		if lock.Total > len(lock.Lines) {
			fmt.Fprintf(w, "-- %d-%d of %d\n", lock.Skip+1, lock.Skip+len(lock.Lines), lock.Total)
		}
	}
	return nil
}

func styleLine(out *termenv.Output, line highlight.Line) string {
	var b strings.Builder
	for _, span := range line {
		s := out.String(span.Text)
		if span.Color != "" {
			s = s.Foreground(out.Color(span.Color))
		}
		if span.Bold {
			s = s.Bold()
		}
		if span.Italic {
			s = s.Italic()
		}
		b.WriteString(s.String())
	}
	return b.String()
}
