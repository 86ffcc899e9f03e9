package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Bre77/wip/internal/bootstrap"
	"github.com/Bre77/wip/internal/bootstrap/logging"
	"github.com/Bre77/wip/internal/errs"
	"github.com/Bre77/wip/internal/transport/mcpserver"
	"github.com/Bre77/wip/internal/usecase/auth"
	"github.com/Bre77/wip/internal/usecase/worklist"
)

// snapshotCmd prints the last published worklist for a user, rendered the
// same way the MCP tool serves it.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print a user's last published worklist snapshot",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, worklistSvc *worklist.Service, _ *auth.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		userKey, _ := cmd.Flags().GetString("user")

		items, found, err := worklistSvc.Snapshot(ctx, userKey)
		if err != nil {
			logging.Error(ctx, "read snapshot failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "read snapshot")
		}
		if !found {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "no snapshot published for user %s\n", userKey); err != nil {
				return errs.Wrap(err, "write snapshot output")
			}
			return nil
		}

		if _, err := fmt.Fprint(cmd.OutOrStdout(), mcpserver.RenderSummary(items)); err != nil {
			return errs.Wrap(err, "write snapshot output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(snapshotCmd)

	snapshotCmd.Flags().String("user", "", "GitHub user id whose snapshot to print")
	_ = snapshotCmd.MarkFlagRequired("user")
}
