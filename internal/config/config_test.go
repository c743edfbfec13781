package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
storage:
  driver: memory
`))
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "50061", cfg.GRPCServer.Port)
	assert.Equal(t, "8081", cfg.HTTPServer.Port)
	assert.Equal(t, 30*time.Minute, cfg.AffiliateDB.ConnMaxLifetime)
	assert.Equal(t, "affiliate-events", cfg.KafkaService.Topic)
	assert.Equal(t, 5*time.Minute, cfg.RedisCache.TTL)

	policy, err := cfg.Commission.Policy()
	require.NoError(t, err)
	assert.Equal(t, "50", policy.DefaultPrimaryPercent.String())
	assert.Equal(t, "25", policy.DefaultReferringPercent.String())
	assert.Equal(t, "LEAD", policy.LeadCodePrefix)
	assert.Equal(t, 2, policy.ReferralTreeDepth)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
env: prod
affiliate_db:
  dsn: postgres://affiliate@localhost/affiliate
kafka-service:
  enabled: true
  brokers: ["k1:9092", "k2:9092"]
commission:
  default_primary_percent: "40.5"
  minimum_payout_amount: "50"
  referral_tree_depth: 3
`))
	require.NoError(t, err)
	assert.Equal(t, StorageDriverPostgres, cfg.Storage.Driver)
	assert.Len(t, cfg.KafkaService.Brokers, 2)

	policy, err := cfg.Commission.Policy()
	require.NoError(t, err)
	assert.Equal(t, "40.5", policy.DefaultPrimaryPercent.String())
	assert.Equal(t, "50", policy.MinimumPayoutAmount.String())
	assert.Equal(t, 3, policy.ReferralTreeDepth)
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"postgres without dsn", "storage:\n  driver: postgres\n"},
		{"unknown driver", "storage:\n  driver: sqlite\n"},
		{"kafka without brokers", "storage:\n  driver: memory\nkafka-service:\n  enabled: true\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestPolicyValidation(t *testing.T) {
	tests := []struct {
		name string
		c    Commission
	}{
		{"percent above 100", Commission{DefaultPrimaryPercent: "101"}},
		{"negative referring", Commission{DefaultReferringPercent: "-1"}},
		{"not a number", Commission{DefaultDealValue: "lots"}},
		{"zero deal value", Commission{DefaultDealValue: "0"}},
		{"negative minimum", Commission{MinimumPayoutAmount: "-5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.c.Policy()
			assert.Error(t, err)
		})
	}
}
