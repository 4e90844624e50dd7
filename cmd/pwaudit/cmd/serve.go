/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ssargent/pwaudit/pkg/api"
	"github.com/ssargent/pwaudit/pkg/config"
	"github.com/ssargent/pwaudit/pkg/di"
)

const defaultMaxBodyBytes = 10 << 20

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP check API",
	Long: `Start an HTTP server that checks password policy records posted to it.

Endpoints:
  POST /api/v1/check?policy=count   newline-separated records in the body
  GET  /api/v1/policies
  GET  /api/v1/health
  GET  /metrics                     Prometheus metrics (no API key required)

Examples:
  pwaudit serve --port 8080
  pwaudit serve --api-key=mysecretkey --policy position --history-dir ./history`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fs := cmd.Flags()
		if fs.Changed("port") {
			cfg.Server.Port, _ = fs.GetInt("port")
		}
		if fs.Changed("bind") {
			cfg.Server.Bind, _ = fs.GetString("bind")
		}
		applyCheckFlags(fs, cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}
		apiKey, _ := fs.GetString("api-key")

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return runServer(ctx, container, cfg, logger, apiKey)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind to")
	serveCmd.Flags().String("api-key", "", "API key required in X-API-Key (empty disables authentication)")
	serveCmd.Flags().StringP("policy", "p", "count", "default policy for requests that do not name one")
	serveCmd.Flags().Bool("history", false, "record every check in the history store")
	serveCmd.Flags().String("history-dir", "", "history store directory")
}

func runServer(ctx context.Context, c *di.Container, conf *config.Config, log *zap.Logger, apiKey string) error {
	var recorder api.RunRecorder
	if conf.History.Enabled {
		store, err := c.OpenHistory(conf.History.Dir)
		if err != nil {
			return err
		}
		defer store.Close()
		recorder = store
	}

	server := api.NewServer(api.ServerConfig{
		Port:         conf.Server.Port,
		Bind:         conf.Server.Bind,
		APIKey:       apiKey,
		Policy:       conf.Policy,
		MaxBodyBytes: defaultMaxBodyBytes,
	}, c.Metrics(), log, recorder)

	return server.ListenAndServe(ctx)
}
