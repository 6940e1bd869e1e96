package cmd

import (
	"fmt"
	"os"

	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var getOutput string

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Retrieve a stored message",
	Long: `Retrieve a stored message by key. The payload is written to stdout,
or to a file with --out.

Example:
  bio get 2QyXkHq1Zv4nC7dMw8JgStAbEfG --out telemetry.bin`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := ksuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid key %q: %w", args[0], err)
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		env, err := store.Get(id)
		if err != nil {
			return err
		}

		logger.Debug("retrieved message",
			zap.String("key", id.String()),
			zap.Time("stored", env.Stored),
			zap.Bool("compressed", env.Compressed),
			zap.Int("bytes", len(env.Payload)))

		if getOutput != "" {
			return os.WriteFile(getOutput, env.Payload, 0644)
		}
		_, err = os.Stdout.Write(env.Payload)
		return err
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.Flags().StringVar(&getOutput, "out", "", "Write the payload to a file instead of stdout")
}
