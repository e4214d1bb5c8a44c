// File: cmd/ipanalysis.go
package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/socklens/socklens/internal/spi"
)

// newIPAnalysisCmd creates the `ip-analysis` command: every distinct IP a
// case mentions, with the report dates it appeared under.
func newIPAnalysisCmd() *cobra.Command {
	var useArchive bool

	cmd := &cobra.Command{
		Use:   "ip-analysis <case-name>",
		Short: "List the IP addresses mentioned in an SPI case with their report dates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			w, err := newWiki()
			if err != nil {
				return err
			}

			spiCase, err := spi.NewCaseFromWiki(ctx, w, args[0], useArchive)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
			fmt.Fprintln(tw, "IP\tDATES")
			for _, summary := range spiCase.IPSummaries() {
				fmt.Fprintf(tw, "%s\t%s\n", summary.IP, strings.Join(summary.Dates, ", "))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&useArchive, "archive", true, "include the case's archive page")
	return cmd
}
