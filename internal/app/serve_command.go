package app

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/fibero-labs/bridgectl/internal/server"
	"github.com/spf13/cobra"
)

func (s *runtimeState) newServeCommand() *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := s.connect(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer svc.close()

			if listen != "" {
				svc.settings.ListenAddress = listen
			}
			srv := server.New(server.Config{
				Listen:         svc.settings.ListenAddress,
				AllowedOrigins: svc.settings.AllowedOrigins,
				RatePerMinute:  svc.settings.RatePerMinute,
				AdminToken:     svc.settings.AdminToken,
			}, server.Deps{
				Registry: svc.registry,
				Pools:    svc.pools,
				Fees:     svc.fees,
				Planner:  svc.planner,
				Executor: svc.executor,
				Admin:    svc.admin,
				Journal:  svc.journal,
				Logger:   svc.logger,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe() }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			svc.logger.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (overrides config)")
	return cmd
}
