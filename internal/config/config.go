package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ConfigName is the config file looked up in the config directory.
const ConfigName = "config.json"

// EnvPrefix prefixes environment overrides, e.g. MISSIONSCORE_LOGLEVEL.
const EnvPrefix = "MISSIONSCORE"

// AttributionConfig holds kill attribution settings
type AttributionConfig struct {
	MatchMode string `json:"matchMode" mapstructure:"matchMode"`
}

// StorageConfig holds kill ledger backend settings
type StorageConfig struct {
	Type string `json:"type" mapstructure:"type"`
}

// ReportConfig holds console report settings
type ReportConfig struct {
	Color    string `json:"color" mapstructure:"color"`
	KillFeed bool   `json:"killFeed" mapstructure:"killFeed"`
}

// OTelConfig holds OpenTelemetry settings
type OTelConfig struct {
	Enabled      bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName  string        `json:"serviceName" mapstructure:"serviceName"`
	BatchTimeout time.Duration `json:"batchTimeout" mapstructure:"batchTimeout"`
}

func setDefaults() {
	viper.SetDefault("DATA_DIR", ".")
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")

	viper.SetDefault("attribution.matchMode", "literal")

	viper.SetDefault("storage.type", "memory")

	viper.SetDefault("report.color", "auto")
	viper.SetDefault("report.killFeed", true)

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "missionscore")
	viper.SetDefault("otel.batchTimeout", "5s")
}

// Load reads configuration from the JSON file and sets default values.
// configDir is the directory containing the config file. Environment
// variables override both; DATA_DIR is read unprefixed as well.
func Load(configDir string) error {
	setDefaults()

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if err := viper.BindEnv("DATA_DIR", "DATA_DIR", EnvPrefix+"_DATA_DIR"); err != nil {
		return fmt.Errorf("error binding DATA_DIR: %w", err)
	}

	viper.SetConfigName(strings.TrimSuffix(ConfigName, ".json"))
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// IsNotFound reports whether Load failed only because there was no
// config file. Defaults and environment are still in effect then.
func IsNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound)
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetDataDir returns the mission log directory.
func GetDataDir() string {
	return viper.GetString("DATA_DIR")
}

// GetAttributionConfig returns the attribution settings.
func GetAttributionConfig() AttributionConfig {
	return AttributionConfig{
		MatchMode: viper.GetString("attribution.matchMode"),
	}
}

// GetStorageConfig returns the storage settings.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
	}
}

// GetReportConfig returns the report settings.
func GetReportConfig() ReportConfig {
	return ReportConfig{
		Color:    viper.GetString("report.color"),
		KillFeed: viper.GetBool("report.killFeed"),
	}
}

// GetOTelConfig returns the OpenTelemetry settings.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
	}
}
