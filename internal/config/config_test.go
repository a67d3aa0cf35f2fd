package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-charts/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
	dir string
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()

	for _, key := range []string{EnvPolygonAPIKey, EnvDataDir, EnvProvider, EnvRedisAddr} {
		suite.T().Setenv(key, "")
	}
}

func (suite *ConfigTestSuite) writeConfig(content string) string {
	path := filepath.Join(suite.dir, "chartsync.yaml")
	suite.Require().NoError(os.WriteFile(path, []byte(content), 0o644))

	return path
}

func (suite *ConfigTestSuite) TestDefaults() {
	cfg, err := Load("")
	suite.Require().NoError(err)

	suite.Equal(Default(), cfg)
	suite.Equal(30*time.Second, cfg.Sync.Timeout)
	suite.Equal(2, cfg.Sync.DisplayYears)
}

func (suite *ConfigTestSuite) TestLoadFile() {
	path := suite.writeConfig(`
data_dir: /var/lib/chartsync
provider:
  preferred: yahoo
  fallback: ""
sync:
  timeout: 10s
  display_years: 5
redis:
  addr: localhost:6379
  ttl: 1h
scheduler:
  enabled: true
  cron: "0 23 * * *"
log_level: debug
`)

	cfg, err := Load(path)
	suite.Require().NoError(err)

	suite.Equal("/var/lib/chartsync", cfg.DataDir)
	suite.Equal("listStocks", cfg.WatchlistFile)
	suite.Equal("yahoo", cfg.Provider.Preferred)
	suite.Empty(cfg.Provider.Fallback)
	suite.Equal(10*time.Second, cfg.Sync.Timeout)
	suite.Equal(5, cfg.Sync.DisplayYears)
	suite.Equal("localhost:6379", cfg.Redis.Addr)
	suite.Equal(time.Hour, cfg.Redis.TTL)
	suite.True(cfg.Scheduler.Enabled)
	suite.Equal("debug", cfg.LogLevel)
}

func (suite *ConfigTestSuite) TestEnvOverrides() {
	suite.T().Setenv(EnvPolygonAPIKey, "secret")
	suite.T().Setenv(EnvDataDir, "/tmp/charts")
	suite.T().Setenv(EnvProvider, " Binance ")
	suite.T().Setenv(EnvRedisAddr, "redis:6379")

	cfg, err := Load(suite.writeConfig("data_dir: ignored\n"))
	suite.Require().NoError(err)

	suite.Equal("secret", cfg.Provider.PolygonAPIKey)
	suite.Equal("/tmp/charts", cfg.DataDir)
	suite.Equal("binance", cfg.Provider.Preferred)
	suite.Equal("redis:6379", cfg.Redis.Addr)
}

func (suite *ConfigTestSuite) TestInvalid() {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown provider", content: "provider:\n  preferred: alpaca\n"},
		{name: "display years too large", content: "sync:\n  display_years: 21\n"},
		{name: "zero timeout", content: "sync:\n  timeout: 0s\n"},
		{name: "log level", content: "log_level: verbose\n"},
		{name: "scheduler without cron", content: "scheduler:\n  enabled: true\n  cron: \"\"\n"},
		{name: "bad yahoo url", content: "provider:\n  preferred: yahoo\n  yahoo_base_url: not a url\n"},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			_, err := Load(suite.writeConfig(tc.content))
			suite.Require().Error(err)
			suite.Equal(errors.ErrCodeInvalidConfiguration, errors.GetCode(err))
		})
	}
}

func (suite *ConfigTestSuite) TestLoadErrors() {
	_, err := Load(filepath.Join(suite.dir, "missing.yaml"))
	suite.True(errors.HasCode(err, errors.ErrCodeConfigLoadFailed))

	_, err = Load(suite.writeConfig("data_dir: [unclosed\n"))
	suite.True(errors.HasCode(err, errors.ErrCodeConfigLoadFailed))
}

func (suite *ConfigTestSuite) TestSchema() {
	schema := Schema()
	suite.Equal("chartsync-config", schema.Title)

	timeout, ok := schema.Properties.Get("sync")
	suite.Require().True(ok)
	suite.NotNil(timeout)

	text, err := SchemaJSON()
	suite.Require().NoError(err)
	suite.Contains(text, "\"display_years\"")
	suite.Contains(text, "\"duration\"")
}
