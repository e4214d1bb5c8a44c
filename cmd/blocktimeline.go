// File: cmd/blocktimeline.go
package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/socklens/socklens/internal/wiki"
)

// newBlockTimelineCmd creates the `block-timeline` command: the block logs
// of one or more users, merged into a single newest-first timeline.
func newBlockTimelineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "block-timeline <user>...",
		Short: "Show a merged, newest-first block timeline for one or more users",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			w, err := newWiki()
			if err != nil {
				return err
			}

			merged, err := w.MultiUserBlockHistories(ctx, args)
			if err != nil {
				return err
			}
			return renderBlockTimeline(cmd.OutOrStdout(), merged)
		},
	}
}

// renderBlockTimeline writes the merged timeline as a table. An entry of any
// kind other than the two block-log events is a data anomaly and fails the
// render rather than vanishing from the output.
func renderBlockTimeline(out io.Writer, entries []wiki.BlockLogEntry) error {
	tw := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tUSER\tACTION\tEXPIRY")
	for _, entry := range entries {
		switch e := entry.(type) {
		case wiki.BlockEvent:
			action := "block"
			if e.IsReblock {
				action = "reblock"
			}
			expiry := "indefinite"
			if e.Expiry != nil {
				expiry = e.Expiry.UTC().Format(time.RFC3339)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
				e.Timestamp.UTC().Format(time.RFC3339), e.Target, action, expiry)
		case wiki.UnblockEvent:
			fmt.Fprintf(tw, "%s\t%s\tunblock\t\n",
				e.Timestamp.UTC().Format(time.RFC3339), e.Target)
		default:
			return fmt.Errorf("unrecognized block log entry %T in timeline", entry)
		}
	}
	return tw.Flush()
}
