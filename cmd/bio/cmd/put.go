package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/binary-io/binaryio/pkg/storage"
)

var noCompress bool

// putCmd represents the put command
var putCmd = &cobra.Command{
	Use:   "put <file>",
	Short: "Store an encoded message",
	Long: `Store the contents of a file as an enveloped message and print the
generated key.

Example:
  bio put telemetry.bin`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		payload, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read payload: %w", err)
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		id, err := store.Put(payload)
		if err != nil {
			return err
		}

		logger.Info("stored message",
			zap.String("key", id.String()),
			zap.Int("bytes", len(payload)))
		fmt.Println(id.String())
		return nil
	},
}

// openStore opens the message store from the active configuration.
func openStore() (*storage.Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	return storage.Open(cfg.DataDir, storage.Options{
		Compress: cfg.Store.Compress && !noCompress,
	})
}

func init() {
	rootCmd.AddCommand(putCmd)
	putCmd.Flags().BoolVar(&noCompress, "no-compress", false, "Store the payload uncompressed")
}
