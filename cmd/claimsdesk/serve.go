package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"stealthcompany.com/claimsdesk/internal/console"
	"stealthcompany.com/claimsdesk/internal/metrics"
	"stealthcompany.com/claimsdesk/internal/orchestrator"
)

const shutdownTimeout = 10 * time.Second

func serveCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON console over one long-lived desk",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			orchestrator.NewSignalHandler().HandleSignals(ctx, cancel)

			desk := c.desk()
			metrics.StartSystemMetrics(ctx, c.cfg.SystemMetricsInterval, desk.Sample)
			router := console.NewRouter(desk, console.Options{JWTSecret: c.cfg.ConsoleJWTSecret})

			sm := orchestrator.NewServiceManager()
			sm.AddHTTPService("console", c.cfg.ConsoleAddr, router)
			if c.cfg.MetricsAddr != "" {
				metricsRouter := mux.NewRouter()
				metricsRouter.Handle(console.MetricsPath, metrics.Handler()).Methods(http.MethodGet)
				sm.AddHTTPService("metrics", c.cfg.MetricsAddr, metricsRouter)
			}

			log.Info().
				Str("api_url", c.cfg.BaseURL()).
				Bool("auth", c.cfg.AuthEnabled()).
				Bool("business_metrics", metrics.BusinessEnabled()).
				Bool("system_metrics", metrics.SystemEnabled()).
				Msg("Starting claimsdesk console")

			return sm.Run(ctx, shutdownTimeout)
		},
	}
}

func tokenCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a console bearer token with CONSOLE_JWT_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !c.cfg.AuthEnabled() {
				return errors.New("CONSOLE_JWT_SECRET is not set")
			}
			subject, _ := cmd.Flags().GetString("subject")
			ttl, _ := cmd.Flags().GetDuration("ttl")

			token, err := console.IssueToken([]byte(c.cfg.ConsoleJWTSecret), subject, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().String("subject", "operator", "token subject")
	cmd.Flags().Duration("ttl", 12*time.Hour, "token lifetime")
	return cmd
}
