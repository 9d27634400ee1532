package mail

import (
	"context"
	"errors"

	"github.com/pixelvide/mailflow/pkg/config"
	"github.com/pixelvide/mailflow/pkg/htmltext"
	"github.com/pixelvide/mailflow/pkg/spool"
)

// Built-in strategy names.
const (
	StrategyDefault   = DefaultStrategy
	StrategyLogger    = "logger"
	StrategyCollector = "collector"
	StrategyResend    = "resend"
	StrategySpool     = "spool"
	StrategySQSSpool  = "sqs-spool"
)

// ConfigureRegistry builds a registry with the configured routing table and
// the built-in strategies registered. Strategies whose transport is not
// configured still register; resolving them surfaces a ConfigurationError
// instead of silently routing elsewhere.
func ConfigureRegistry(cfg *config.Config) *Registry {
	if cfg == nil {
		cfg = &config.Config{}
	}
	transformer := htmltext.New(cfg.App.BaseURL, cfg.App.BasePath)

	r := NewRegistry(cfg.Routing)

	r.Register(StrategyDefault, func() (Backend, error) {
		return NewDefaultBackend(transformer, cfg.Mail), nil
	})
	r.Register(StrategyLogger, func() (Backend, error) {
		return NewLoggerBackend(transformer), nil
	})
	r.Register(StrategyCollector, func() (Backend, error) {
		return NewCollectorBackend(transformer), nil
	})
	r.Register(StrategyResend, func() (Backend, error) {
		if cfg.Mail.ResendKey == "" {
			return nil, errors.New("RESEND_API_KEY is not set")
		}
		return NewResendBackend(cfg.Mail.ResendKey, transformer), nil
	})
	r.Register(StrategySpool, func() (Backend, error) {
		sp := spool.NewRedisSpool(cfg.Redis, cfg.Mail.SpoolKey)
		return NewSpoolBackend(sp, transformer), nil
	})
	r.Register(StrategySQSSpool, func() (Backend, error) {
		if cfg.SQS.QueueUrl == "" {
			return nil, errors.New("SQS_QUEUE_URL is not set")
		}
		client, err := config.LoadSQSClient(context.Background(), cfg.SQS)
		if err != nil {
			return nil, err
		}
		return NewSpoolBackend(spool.NewSQSSpool(client, cfg.SQS.QueueUrl), transformer), nil
	})

	return r
}
