package cmd

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Bre77/wip/internal/bootstrap"
	"github.com/Bre77/wip/internal/bootstrap/logging"
	"github.com/Bre77/wip/internal/errs"
	"github.com/Bre77/wip/internal/transport/httpapi"
	"github.com/Bre77/wip/internal/transport/mcpserver"
	"github.com/Bre77/wip/internal/usecase/auth"
	"github.com/Bre77/wip/internal/usecase/worklist"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the tracker HTTP server (API, OAuth flow and MCP endpoint)",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, worklistSvc *worklist.Service, authSvc *auth.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		addr, _ := cmd.Flags().GetString("addr")
		addr = strings.TrimSpace(addr)
		if addr == "" {
			addr = app.Config.Server.Addr
		}

		server := &http.Server{
			Addr:    addr,
			Handler: httpapi.New(worklistSvc, authSvc, mcpserver.NewHandler(worklistSvc)),
		}

		logging.Info(
			ctx,
			"tracker server started",
			slog.String("addr", addr),
		)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error(ctx, "tracker server failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "serve tracker")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Listen address (defaults to server.addr from config)")
}
