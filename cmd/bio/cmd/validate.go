package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/binary-io/binaryio/pkg/schema"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate <path>",
	Short: "Validate protocol definitions without generating code",
	Long: `Validate one YAML protocol file, or every definition in a directory.

Example:
  bio validate ./protocols
  bio validate ./protocols/sensor_telemetry.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		protocols, err := schema.LoadPath(args[0])
		if err != nil {
			return err
		}

		for _, proto := range protocols {
			logger.Debug("validated protocol",
				zap.String("protocol", proto.Name),
				zap.Int("enums", len(proto.Enums)),
				zap.Int("structs", len(proto.Structs)))
			fmt.Printf("%s: %d enum(s), %d struct(s), %s\n",
				proto.Name, len(proto.Enums), len(proto.Structs), proto.ByteOrder)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
