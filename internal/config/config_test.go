package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `
database:
  host: localhost
  port: 3306
  username: bot
  password: secret
  database: lottery
telegram:
  token: test-token
crawler:
  base_url: https://feed.example.com
app:
  log_level: debug
  min_confidence: 0.8
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "test-token", cfg.Telegram.Token)
	assert.Equal(t, "https://feed.example.com", cfg.Crawler.BaseURL)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, 0.8, cfg.App.MinConfidence)
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
database:
  host: localhost
telegram:
  token: test-token
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "hybrid", cfg.App.DefaultMethod)
	assert.Equal(t, 30, cfg.App.DefaultPeriods)
	assert.Equal(t, 0.7, cfg.App.MinConfidence)
	assert.Equal(t, 0.6, cfg.App.FrequencyWeight)
	assert.Equal(t, 0.4, cfg.App.PatternWeight)
	assert.Equal(t, "50 21 * * *", cfg.Crawler.Schedule)
	assert.Equal(t, 3, cfg.Crawler.RetryCount)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "database: [not a map")
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestGetDSN(t *testing.T) {
	db := Database{
		Host:     "db.internal",
		Port:     3306,
		Username: "bot",
		Password: "secret",
		Database: "lottery",
	}
	assert.Equal(t,
		"bot:secret@tcp(db.internal:3306)/lottery?charset=utf8mb4&parseTime=True&loc=Local",
		db.GetDSN())
}
