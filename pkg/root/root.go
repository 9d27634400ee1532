package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mailflow",
	Short: "Mailflow outbound mail CLI",
	Long:  `Composes outbound email, renders markup to format=flowed plain text, and works the mail spool.`,
}

// SetInfo overrides the root command identity, e.g. when embedding the
// commands under another binary.
func SetInfo(use, short, long string) {
	rootCmd.Use = use
	rootCmd.Short = short
	rootCmd.Long = long
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func GetRoot() *cobra.Command {
	return rootCmd
}
