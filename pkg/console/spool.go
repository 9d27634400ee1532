package console

import (
	"context"

	"github.com/pixelvide/mailflow/pkg/config"
	"github.com/pixelvide/mailflow/pkg/htmltext"
	"github.com/pixelvide/mailflow/pkg/mail"
	"github.com/pixelvide/mailflow/pkg/root"
	"github.com/pixelvide/mailflow/pkg/schedule"
	"github.com/pixelvide/mailflow/pkg/spool"
	"github.com/pixelvide/mailflow/pkg/telemetry"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	spoolSchedule string
	spoolBatch    int
	spoolOneOnly  bool
)

var spoolCmd = &cobra.Command{
	Use:   "spool:work",
	Short: "Periodically flush the mail spool through the SMTP backend",
	Run: func(cmd *cobra.Command, args []string) {
		telemetry.SetGlobalLogger()

		cfg, err := config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		transformer := htmltext.New(cfg.App.BaseURL, cfg.App.BasePath)
		sp := spool.NewRedisSpool(cfg.Redis, cfg.Mail.SpoolKey)
		target := mail.NewDefaultBackend(transformer, cfg.Mail)

		var lock schedule.LockProvider
		if spoolOneOnly {
			lock = schedule.NewRedisLockProvider(sp.Client())
		}

		kernel := schedule.NewKernel(lock)
		flush := func() {
			ctx := log.Logger.WithContext(context.Background())
			delivered, err := mail.FlushSpool(ctx, sp, target, spoolBatch)
			if err != nil {
				log.Error().Err(err).Msg("Spool flush failed")
			}
			if delivered > 0 {
				log.Info().Int("delivered", delivered).Msg("Spool flushed")
			}
		}

		opts := []schedule.JobOption{schedule.WithoutOverlapping()}
		if spoolOneOnly {
			opts = append(opts, schedule.OnOneServer("mail-spool-flush"))
		}
		kernel.Register(spoolSchedule, flush, opts...)
		kernel.Run()
	},
}

func init() {
	spoolCmd.Flags().StringVar(&spoolSchedule, "schedule", "0 * * * * *", "cron schedule for the flush (with seconds)")
	spoolCmd.Flags().IntVar(&spoolBatch, "batch", 50, "maximum envelopes delivered per flush")
	spoolCmd.Flags().BoolVar(&spoolOneOnly, "one-server", false, "use a Redis lock so one server flushes per tick")
	root.GetRoot().AddCommand(spoolCmd)
}
