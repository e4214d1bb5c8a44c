// File: cmd/catgraph.go
package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/socklens/socklens/internal/catgraph"
	"github.com/socklens/socklens/internal/observability"
)

// newCatGraphCmd creates the `cat-graph` command: the flattened category
// ancestry of a page, navigated to a bounded depth.
func newCatGraphCmd() *cobra.Command {
	var depth int

	cmd := &cobra.Command{
		Use:   "cat-graph <page-title>",
		Short: "Show a page's category ancestry to a bounded depth",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			w, err := newWiki()
			if err != nil {
				return err
			}

			builder := catgraph.NewBuilder(w, observability.GetLogger())
			nodes, err := builder.BuildGraph(ctx, args[0], depth)
			if err != nil {
				return err
			}

			names := make(map[string]struct{})
			for _, node := range nodes {
				for name := range node.Flatten() {
					names[name] = struct{}{}
				}
			}
			sorted := make([]string, 0, len(names))
			for name := range names {
				sorted = append(sorted, name)
			}
			sort.Strings(sorted)

			out := cmd.OutOrStdout()
			for _, name := range sorted {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&depth, "depth", 3, "how many category levels to navigate")
	return cmd
}
