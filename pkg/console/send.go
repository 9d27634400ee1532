package console

import (
	"context"
	"io"
	"os"

	"github.com/pixelvide/mailflow/pkg/config"
	"github.com/pixelvide/mailflow/pkg/mail"
	"github.com/pixelvide/mailflow/pkg/root"
	"github.com/pixelvide/mailflow/pkg/telemetry"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
)

var (
	sendCategory string
	sendKey      string
	sendTo       string
	sendReplyTo  string
	sendLanguage string
	sendSubject  string
	sendDryRun   bool
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Compose and send one message, body markup from stdin",
	Run: func(cmd *cobra.Command, args []string) {
		telemetry.SetGlobalLogger()

		tp, err := telemetry.InitTracer("mailflow")
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize tracer")
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				log.Error().Err(err).Msg("Error shutting down tracer provider")
			}
		}()

		cfg, err := config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		body, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to read stdin")
		}

		registry := mail.ConfigureRegistry(cfg)
		composer := mail.NewComposer(registry, cfg)
		composer.RegisterBuilder(sendCategory, func(key string, msg *mail.Message, params map[string]any) {
			msg.Subject = sendSubject
			msg.Body = append(msg.Body, string(body))
		})

		ctx := log.Logger.WithContext(context.Background())
		ctx, span := otel.Tracer("mailflow").Start(ctx, "mail.compose")
		defer span.End()

		msg, err := composer.Compose(ctx, sendCategory, sendKey, sendTo, sendLanguage, nil, sendReplyTo, !sendDryRun)
		if err != nil {
			log.Fatal().Err(err).Msg("Compose failed")
		}

		log.Info().
			Str("id", msg.ID).
			Stringer("result", msg.Result).
			Msg("Compose finished")
		if sendDryRun {
			os.Stdout.WriteString(msg.BodyText())
		}
	},
}

func init() {
	sendCmd.Flags().StringVar(&sendCategory, "category", "system", "message category")
	sendCmd.Flags().StringVar(&sendKey, "key", "notice", "template key within the category")
	sendCmd.Flags().StringVar(&sendTo, "to", "", "recipient address")
	sendCmd.Flags().StringVar(&sendReplyTo, "reply-to", "", "Reply-To address")
	sendCmd.Flags().StringVar(&sendLanguage, "language", "en", "message language code")
	sendCmd.Flags().StringVar(&sendSubject, "subject", "", "message subject")
	sendCmd.Flags().BoolVar(&sendDryRun, "dry-run", false, "format only, print the body instead of sending")
	_ = sendCmd.MarkFlagRequired("to")
	root.GetRoot().AddCommand(sendCmd)
}
