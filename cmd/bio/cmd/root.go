package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/binary-io/binaryio/pkg/config"
)

var (
	cfgFile string
	verbose bool

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bio",
	Short: "bio - binary protocol toolkit",
	Long: `bio generates Go codecs from YAML protocol definitions and manages
a local store of encoded messages.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if verbose {
			logger, err = zap.NewDevelopment()
		} else {
			logger, err = zap.NewProduction()
		}
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}

		switch {
		case cfgFile != "":
			cfg, err = config.LoadConfig(cfgFile)
			if err != nil {
				return err
			}
			logger.Debug("loaded config", zap.String("path", cfgFile))
		case config.ConfigExists(config.GetDefaultConfigPath()):
			cfg, err = config.LoadConfig(config.GetDefaultConfigPath())
			if err != nil {
				return err
			}
		default:
			cfg = config.DefaultConfig()
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to a bio config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}
