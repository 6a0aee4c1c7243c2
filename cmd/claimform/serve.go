package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-claimform/internal/apispec"
	"github.com/goliatone/go-claimform/internal/ratelimit"
	"github.com/goliatone/go-claimform/internal/server"
	"github.com/goliatone/go-claimform/internal/sessionstore"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the campaign site and the intake API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		logger := zap.L()
		orch, err := newOrchestrator(cfg)
		if err != nil {
			return err
		}
		contract, err := apispec.Load(ctx)
		if err != nil {
			return eris.Wrap(err, "load api contract")
		}

		store := sessionstore.New(cfg.Session.TTL, cfg.Session.CleanupInterval, orch.NewSession,
			sessionstore.WithLogger(logger.Named("sessions")))
		limiter := ratelimit.New(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, cfg.RateLimit.IdleTTL)

		srv, err := server.New(orch, store,
			server.WithContract(contract),
			server.WithLimiter(limiter),
			server.WithLogger(logger.Named("http")),
			server.WithCookie(cfg.Session.CookieName, cfg.Server.SecureCookies),
			server.WithAllowedOrigins(cfg.CORS.AllowedOrigins...),
		)
		if err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		logger.Info("starting server",
			zap.Int("port", port),
			zap.String("campaign", orch.Campaign()),
			zap.Strings("renderers", orch.Renderers()),
		)
		return srv.Run(ctx, server.Config{
			Port:            port,
			ReadTimeout:     cfg.Server.ReadTimeout,
			WriteTimeout:    cfg.Server.WriteTimeout,
			ShutdownTimeout: cfg.Server.ShutdownTimeout,
		})
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
