package cmd

import (
	"fmt"

	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Delete a stored message",
	Long: `Delete a stored message by key.

Example:
  bio delete 2QyXkHq1Zv4nC7dMw8JgStAbEfG`,
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

		if err := store.Delete(id); err != nil {
			return err
		}

		logger.Info("deleted message", zap.String("key", id.String()))
		fmt.Printf("Deleted %s\n", id.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
