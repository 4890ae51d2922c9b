package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults_FillsZeroValues(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultServerHost, cfg.Server.Host)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultServerMode, cfg.Server.Mode)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Log.Format)
	assert.Equal(t, DefaultNamePrefix, cfg.Pipeline.NamePrefix)
	assert.Empty(t, cfg.Pipeline.Rules, "empty rule list means all rules")
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9999
	cfg.Log.Level = "debug"
	ApplyDefaults(cfg)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestApplyDefaults_StorePathNeverDefaulted(t *testing.T) {
	cfg := &Config{}
	cfg.Store.Enabled = true
	ApplyDefaults(cfg)

	assert.Empty(t, cfg.Store.Path, "an enabled store must name its path explicitly")
	assert.Error(t, cfg.Validate())
}

func TestApplyDefaults_NilSafe(t *testing.T) {
	ApplyDefaults(nil)
}
