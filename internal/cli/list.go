package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/kk-code-lab/rview/internal/events"
	"github.com/kk-code-lab/rview/internal/files"
	fsutil "github.com/kk-code-lab/rview/internal/fs"
	"github.com/kk-code-lab/rview/internal/preview"
)

func newListCmd(g *globals) *cobra.Command {
	var (
		batchSize     int
		batchInterval time.Duration
		showBatches   bool
	)

	cmd := &cobra.Command{
		Use:   "list <dir>",
		Short: "Stream a directory listing the way the browser loads it",
		Long: heredoc.Doc(`
			Runs the folder loader without a terminal UI. Entries are printed in
			discovery order as each batch arrives.
		`),
		Example: heredoc.Doc(`
			rview list /usr/lib --batches --batch-size 500
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			opts := g.cfg.LoaderOptions()
			if cmd.Flags().Changed("batch-size") {
				opts.BatchSize = batchSize
			}
			if cmd.Flags().Changed("batch-interval") {
				opts.BatchInterval = batchInterval
			}

			out := newListPrinter(cmd.OutOrStdout(), showBatches)
			preview.LoadFolder(cmd.Context(), preview.Disk{}, out, dir, fsutil.DummyFingerprint(), opts)
			return out.err
		},
	}

	cmd.Flags().IntVar(&batchSize, "batch-size", preview.DefaultBatchSize, "maximum entries per batch")
	cmd.Flags().DurationVar(&batchInterval, "batch-interval", preview.DefaultBatchInterval, "flush a partial batch after this long")
	cmd.Flags().BoolVar(&showBatches, "batches", false, "print a header for every batch")
	return cmd
}

// listPrinter writes folder ops as they are emitted.
type listPrinter struct {
	w       io.Writer
	out     *termenv.Output
	batches bool
	total   int
	err     error
}

func newListPrinter(w io.Writer, batches bool) *listPrinter {
	return &listPrinter{w: w, out: termenv.NewOutput(w), batches: batches}
}

func (p *listPrinter) Emit(_ context.Context, ev events.Event) bool {
	op, ok := ev.(files.Op)
	if !ok {
		return true
	}

	switch op.Kind {
	case files.OpPart:
		if p.batches {
			fmt.Fprintf(p.w, "# batch ticket=%d entries=%d\n", op.Ticket, len(op.Entries))
		}
		for _, e := range op.Entries {
			fmt.Fprintln(p.w, p.entry(e))
		}
		p.total += len(op.Entries)
	case files.OpDone:
		if p.batches {
			fmt.Fprintf(p.w, "# done ticket=%d entries=%d\n", op.Ticket, p.total)
		}
	case files.OpError:
		p.err = op.Err
	}
	return true
}

func (p *listPrinter) entry(e fsutil.Entry) string {
	switch {
	case e.IsDir:
		return p.out.String(e.Name + "/").Foreground(p.out.Color("4")).Bold().String()
	case e.IsSymlink:
		return p.out.String(e.Name).Foreground(p.out.Color("6")).String()
	default:
		return e.Name
	}
}
