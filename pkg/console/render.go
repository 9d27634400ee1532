// Package console provides the mailflow CLI commands.
package console

import (
	"fmt"
	"io"
	"os"

	"github.com/pixelvide/mailflow/pkg/htmltext"
	"github.com/pixelvide/mailflow/pkg/root"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	renderBaseURL  string
	renderBasePath string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render markup from stdin to format=flowed plain text",
	Run: func(cmd *cobra.Command, args []string) {
		markup, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to read stdin")
		}

		transformer := htmltext.New(renderBaseURL, renderBasePath)
		fmt.Print(transformer.Transform(string(markup)))
	},
}

func init() {
	renderCmd.Flags().StringVar(&renderBaseURL, "base-url", "", "absolute site URL for link footnotes")
	renderCmd.Flags().StringVar(&renderBasePath, "base-path", "/", "path prefix of site-local links")
	root.GetRoot().AddCommand(renderCmd)
}
