package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"stealthcompany.com/claimsdesk/internal/apiclient"
	"stealthcompany.com/claimsdesk/internal/app"
	"stealthcompany.com/claimsdesk/internal/config"
	"stealthcompany.com/claimsdesk/internal/metrics"
	"stealthcompany.com/claimsdesk/pkg/zerolog_config"
)

const appName = "claimsdesk"

// cli carries state shared by every subcommand of one invocation
type cli struct {
	configFile string
	jsonOut    bool
	cfg        *config.Config
}

func (c *cli) desk() *app.Desk {
	return app.New(apiclient.NewClient(c.cfg.BaseURL(), c.cfg.APITimeout))
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:           appName,
		Short:         "Patient and insurance claims desk",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configFile)
			if err != nil {
				return err
			}
			c.cfg = cfg

			zerolog_config.SetAppPrefix(appName)
			if err := zerolog_config.StartupWithEnv(cfg.ElasticsearchURL, cfg.LogIndex, cfg.LogLevel); err != nil {
				return err
			}
			metrics.Configure(cfg.EnableBusinessMetrics, cfg.EnableSystemMetrics)

			log.Debug().
				Str("command", cmd.CommandPath()).
				Str("api_url", cfg.BaseURL()).
				Msg("Configuration loaded")
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default .env in the working directory)")
	rootCmd.PersistentFlags().BoolVar(&c.jsonOut, "json", false, "print JSON instead of a table")

	rootCmd.AddCommand(serveCmd(c))
	rootCmd.AddCommand(tokenCmd(c))
	rootCmd.AddCommand(patientsCmd(c))
	rootCmd.AddCommand(claimsCmd(c))
	rootCmd.AddCommand(syncCmd(c))

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
