package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Xausdorf/dapp-votes/internal/config"
)

var (
	rootCmd = &cobra.Command{
		Use:   "dapp-votes",
		Short: "Poll based voting ledger served over JSON-RPC",
	}

	flagConfigFile string
	flagValues     = config.Default()
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigFile, "config", "", "yaml config file")
	flagValues.BindFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(nodeCmd, shellCmd)
}

// loadConfig layers the config file, the environment and the flags set on cmd over the defaults.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if flagConfigFile != "" {
		if err := cfg.LoadFile(flagConfigFile); err != nil {
			return cfg, err
		}
	}
	if err := cfg.LoadEnv(os.Getenv); err != nil {
		return cfg, err
	}
	cfg.Override(cmd.Flags(), &flagValues)

	return cfg, cfg.Validate()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
