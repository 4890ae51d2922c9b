// Package config provides configuration loading, defaults, and validation.
package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/molsift/molsift/pkg/errors"
)

// envPrefix is the environment variable prefix used by all settings.
const envPrefix = "MOLSIFT"

// newViper builds a pre-configured Viper instance: YAML file type, MOLSIFT_
// env prefix, automatic env binding, and a key replacer that maps "." to "_"
// so that nested keys like "server.port" resolve to "MOLSIFT_SERVER_PORT".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Viper only consults the environment for keys it already knows about,
	// so register every key with a zero default.  ApplyDefaults still owns
	// the real default values.
	for _, key := range []string{
		"server.host", "server.mode",
		"log.level", "log.format",
		"pipeline.name_prefix",
		"store.path",
	} {
		v.SetDefault(key, "")
	}
	v.SetDefault("server.port", 0)
	v.SetDefault("server.read_timeout", 0)
	v.SetDefault("server.write_timeout", 0)
	v.SetDefault("server.shutdown_timeout", 0)
	v.SetDefault("store.enabled", false)
	v.SetDefault("pipeline.rules", []string{})

	return v
}

// Load reads the YAML file at configPath, merges MOLSIFT_* environment
// variable overrides, applies defaults for unset fields, and validates the
// result.  Returns a fully-populated *Config or a ConfigurationError.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, errors.CodeConfiguration, "reading config file").
			WithDetail("path=" + configPath)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from MOLSIFT_* environment variables
// and defaults, with no config file required.
func LoadFromEnv() (*Config, error) {
	v := newViper()
	return unmarshalAndFinalize(v)
}

// unmarshalAndFinalize unmarshals viper state into a Config, applies
// defaults, and validates the result.
func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, errors.CodeConfiguration, "unmarshalling configuration")
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CodeConfiguration, "validating configuration")
	}

	return cfg, nil
}
