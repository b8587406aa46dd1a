package cli

import (
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the planner HTTP backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Serve == nil {
				return errors.New("serve is not available in this build")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			printf(cmd, "Listening on %s\n", addr)
			return app.Serve(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", app.ServerAddr, "Listen address")
	return cmd
}
