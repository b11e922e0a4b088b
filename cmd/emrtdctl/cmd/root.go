// Package cmd provides the emrtdctl CLI commands.
package cmd

import (
	"fmt"

	"github.com/andrei-cloud/go-emrtd/internal/config"
	"github.com/andrei-cloud/go-emrtd/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	cfg     *config.Config
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "emrtdctl",
	Short: "Read, decode, and simulate ICAO Doc 9303 eMRTD chips",
	Long: `emrtdctl parses and renders machine readable zones, encodes and decodes
ISO/IEC 7816-4 APDUs, walks a PC/SC reader through Basic Access Control and
secure messaging to read an eMRTD's elementary files, and can stand in for
a physical chip with an in-process simulator.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if err := config.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize configuration: %w", err)
		}
		if cfgFile != "" {
			v := config.GetViper()
			v.SetConfigFile(cfgFile)
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
			}
			if err := v.Unmarshal(config.Get()); err != nil {
				return fmt.Errorf("failed to decode config file %s: %w", cfgFile, err)
			}
		}
		cfg = config.Get()

		logging.InitLogger(cfg.Log.Level == "debug", cfg.Log.Format == "human")

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file (default is $HOME/.emrtdctl/config.yaml)")

	rootCmd.PersistentFlags().
		String("log-level", "info", "logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "logging format (human, json)")

	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))  //nolint:errcheck // flag always registered above
	viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format")) //nolint:errcheck // flag always registered above
}
