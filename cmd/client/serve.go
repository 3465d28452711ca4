package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"mass-sign-client/internal/config"
	"mass-sign-client/internal/handler"
	"mass-sign-client/internal/metrics"
)

// serveCommand runs the local HTTP gateway a UI can drive.
func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the signing gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Wiring
			container, err := config.NewContainer()
			if err != nil {
				return err
			}
			defer container.Workflow.Close()

			metrics.Init()

			// Router
			router := handler.NewRouter(container)

			server := &http.Server{
				Addr:    ":" + container.Config.GetGatewayPort(),
				Handler: router,
			}

			// Run server
			go func() {
				container.Logger.Info("Gateway listening", "address", server.Addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					container.Logger.Error("Gateway failed to start", err)
					os.Exit(1)
				}
			}()

			// Graceful shutdown
			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			container.Logger.Info("Shutting down gateway...")
			_ = server.Close()

			container.Logger.Info("Gateway exited")
			return nil
		},
	}
}
