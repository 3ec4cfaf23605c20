package app

import (
	"fmt"

	"github.com/fibero-labs/bridgectl/internal/config"
	bridgerr "github.com/fibero-labs/bridgectl/internal/errors"
	"github.com/fibero-labs/bridgectl/internal/journal"
	"github.com/spf13/cobra"
)

func (s *runtimeState) newHistoryCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent submitted transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			// History only reads the local journal; no chain connections.
			settings, err := config.Load(s.flags)
			if err != nil {
				return bridgerr.Wrap(bridgerr.CodeUsage, "load configuration", err)
			}
			store, err := journal.Open(settings.JournalPath, settings.JournalLockPath)
			if err != nil {
				return bridgerr.Wrap(bridgerr.CodeInternal, "open journal", err)
			}
			defer store.Close()

			entries, err := store.Recent(limit)
			if err != nil {
				return bridgerr.Wrap(bridgerr.CodeInternal, "read journal", err)
			}
			if s.flags.JSON {
				return printJSON(cmd.OutOrStdout(), entries)
			}
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-16s %-8s %-6s %-12s %s\n",
					e.CreatedAt, e.Op, e.Chain, e.Token, e.Status, e.TxHash)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum entries to list")
	return cmd
}
