/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ssargent/pwaudit/pkg/config"
	"github.com/ssargent/pwaudit/pkg/di"
)

var (
	container = di.NewContainer()
	cfg       = config.DefaultConfig()
	logger    = zap.NewNop()
)

// SetContainer injects the dependency container
func SetContainer(c *di.Container) {
	container = c
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pwaudit",
	Short: "pwaudit - Password policy auditor",
	Long: `pwaudit reads files of password policy records and counts how many
passwords satisfy their policy.

Each line has the form "<A>-<B> <letter>: <password>". The count policy reads
A and B as the minimum and maximum number of times letter may appear; the
position policy requires letter at exactly one of the 1-based positions A and B.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		loaded, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			loaded.Logging.Level, _ = cmd.Flags().GetString("log-level")
		}

		l, err := loaded.Logging.NewLogger()
		if err != nil {
			return err
		}
		cfg = loaded
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default "+config.GetDefaultConfigPath()+" if present)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
}

// loadConfig reads path, or the default config file when path is empty and
// that file exists. Otherwise the built-in defaults are used.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = config.GetDefaultConfigPath()
		if !config.ConfigExists(path) {
			return config.DefaultConfig(), nil
		}
	}
	loaded, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return loaded, nil
}
