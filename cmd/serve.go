package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/darmiel/mcauth/internal/api"
	"github.com/darmiel/mcauth/internal/audit"
	"github.com/darmiel/mcauth/internal/store"
	"github.com/darmiel/mcauth/internal/tasks"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local authentication server emulator",
	Long: `Serves the Yggdrasil authentication routes for the users configured in the
'server' section of the configuration file. Point a provider's server_url at it
to test logins without a real account.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := f.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if cfg.Server == nil {
			return fmt.Errorf("configuration has no 'server' section")
		}
		serverCfg := cfg.Server.WithDefaults()
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			serverCfg.Addr = addr
		}
		if serverCfg.SigningKey == "" {
			log.Warn().Msg("No signing_key configured, issued tokens become invalid on restart")
		}

		taskManager := tasks.NewManager()
		defer taskManager.Stop()

		srv, err := api.NewServer(serverCfg, store.NewInMemoryTokenStore(), taskManager, audit.NewInMemoryAuditor())
		if err != nil {
			return err
		}
		log.Info().Msgf("Serving %d user(s)", len(serverCfg.Users))

		server := &http.Server{
			Addr:              serverCfg.Addr,
			Handler:           srv.Routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			log.Info().Msgf("Starting server on %s...", serverCfg.Addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal().Err(err).Msg("Server crashed")
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info().Msg("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}

		log.Info().Msg("Server exited")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "address to listen on (overrides server.addr)")
}
