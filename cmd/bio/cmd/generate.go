package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/binary-io/binaryio/pkg/gen"
	"github.com/binary-io/binaryio/pkg/schema"
)

var outputDir string

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate [protocol-dir]",
	Short: "Generate Go codecs from protocol definitions",
	Long: `Generate Go source from one YAML protocol file, or from every
definition in a directory. Each protocol becomes one package under the
output directory.

Example:
  bio generate ./protocols --output ./generated
  bio generate ./protocols/sensor_telemetry.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		protocolPath := cfg.ProtocolDir
		if len(args) == 1 {
			protocolPath = args[0]
		}
		out := outputDir
		if out == "" {
			out = cfg.OutputDir
		}

		protocols, err := schema.LoadPath(protocolPath)
		if err != nil {
			return err
		}

		for _, proto := range protocols {
			pkgDir := filepath.Join(out, proto.Package)
			if err := os.MkdirAll(pkgDir, 0755); err != nil {
				return fmt.Errorf("failed to create output dir: %w", err)
			}

			path, err := gen.GenerateFile(proto, pkgDir, filepath.Base(proto.Source))
			if err != nil {
				return err
			}
			logger.Info("generated protocol",
				zap.String("protocol", proto.Name),
				zap.String("path", path))
		}

		fmt.Printf("Generated %d protocol(s) into %s\n", len(protocols), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory for generated source")
}
