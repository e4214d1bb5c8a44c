// File: cmd/sockinfo.go
package cmd

import (
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/socklens/socklens/internal/spi"
)

// userSummary is one row of sock-info output.
type userSummary struct {
	username     string
	registration *time.Time
}

// newSockInfoCmd creates the `sock-info` command: list every account a case
// mentions, with its registration time.
func newSockInfoCmd() *cobra.Command {
	var useArchive bool

	cmd := &cobra.Command{
		Use:   "sock-info <case-name>",
		Short: "List the accounts mentioned in an SPI case with their registration times",
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

			var summaries []userSummary
			for _, mention := range spiCase.AllUserMentions() {
				registration, err := w.RegistrationTime(ctx, mention.Username)
				if err != nil {
					return err
				}
				summaries = append(summaries, userSummary{
					username:     mention.Username,
					registration: registration,
				})
			}

			// Accounts with no recorded registration sort first: moderators
			// read "no registration" as oldest.
			sort.SliceStable(summaries, func(i, j int) bool {
				a, b := summaries[i].registration, summaries[j].registration
				if a == nil {
					return b != nil
				}
				if b == nil {
					return false
				}
				return a.Before(*b)
			})

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
			fmt.Fprintln(tw, "USERNAME\tREGISTERED")
			for _, s := range summaries {
				registered := "unknown"
				if s.registration != nil {
					registered = s.registration.UTC().Format(time.RFC3339)
				}
				fmt.Fprintf(tw, "%s\t%s\n", s.username, registered)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&useArchive, "archive", true, "include the case's archive page")
	return cmd
}
