package mail

import (
	"testing"

	"github.com/pixelvide/mailflow/pkg/config"
	"github.com/stretchr/testify/assert"
)

func TestConfigureRegistry(t *testing.T) {
	cfg := &config.Config{}
	cfg.Mail.ResendKey = "re_test_key"
	cfg.Routing = map[string]string{
		"user":           StrategyLogger,
		"test":           StrategyCollector,
		"newsletter":     StrategySpool,
		"transactional":  StrategyResend,
		"default-system": StrategyDefault,
	}

	registry := ConfigureRegistry(cfg)

	tests := []struct {
		name     string
		category string
		wantType interface{}
	}{
		{"logger", "user", &LoggerBackend{}},
		{"collector", "test", &CollectorBackend{}},
		{"spool", "newsletter", &SpoolBackend{}},
		{"resend", "transactional", &ResendBackend{}},
		{"default fallback", "unrouted", &DefaultBackend{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := registry.Resolve(tt.category, "any")
			assert.NoError(t, err)
			assert.IsType(t, tt.wantType, got)
		})
	}
}

func TestConfigureRegistry_UnconfiguredTransports(t *testing.T) {
	registry := ConfigureRegistry(&config.Config{})

	tests := []struct {
		name     string
		strategy string
	}{
		{"resend without api key", StrategyResend},
		{"sqs spool without queue url", StrategySQSSpool},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ConfigureRegistry(&config.Config{
				Routing: map[string]string{"default-system": tt.strategy},
			})
			_, err := r.Resolve("user", "welcome")
			var cfgErr *ConfigurationError
			assert.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.strategy, cfgErr.Strategy)
		})
	}

	// A nil configuration still yields a working registry.
	_, err := registry.Resolve("user", "welcome")
	assert.NoError(t, err)
	_, err = ConfigureRegistry(nil).Resolve("user", "welcome")
	assert.NoError(t, err)
}
