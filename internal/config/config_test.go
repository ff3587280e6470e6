package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigName), []byte(content), 0644))
	return dir
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"DATA_DIR": "C:\\IL-2\\data\\Missions",
		"logLevel": "debug",
		"attribution": { "matchMode": "victim" }
	}`)

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, `C:\IL-2\data\Missions`, GetDataDir())
	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, "victim", GetAttributionConfig().MatchMode)
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{}`)))

	assert.Equal(t, ".", GetDataDir())
	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, "./logs", viper.GetString("logsDir"))
	assert.Equal(t, "literal", viper.GetString("attribution.matchMode"))
	assert.Equal(t, "memory", viper.GetString("storage.type"))
	assert.Equal(t, "auto", viper.GetString("report.color"))
	assert.Equal(t, true, viper.GetBool("report.killFeed"))
	assert.Equal(t, false, viper.GetBool("otel.enabled"))
	assert.Equal(t, "missionscore", viper.GetString("otel.serviceName"))
	assert.Equal(t, "5s", viper.GetString("otel.batchTimeout"))
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
	assert.True(t, IsNotFound(err))

	// defaults are still applied
	assert.Equal(t, ".", GetDataDir())
}

func TestLoad_InvalidJSON(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load(writeConfig(t, `{ not json`))
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("DATA_DIR", "/srv/missions")
	t.Setenv("MISSIONSCORE_LOGLEVEL", "warn")
	t.Setenv("MISSIONSCORE_STORAGE_TYPE", "sqlite")

	require.NoError(t, Load(writeConfig(t, `{"DATA_DIR": "ignored"}`)))

	assert.Equal(t, "/srv/missions", GetDataDir())
	assert.Equal(t, "warn", GetString("logLevel"))
	assert.Equal(t, "sqlite", GetStorageConfig().Type)
}

func TestGetString(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testKey", "testValue")
	assert.Equal(t, "testValue", GetString("testKey"))
}

func TestGetReportConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{
		"report": { "color": "never", "killFeed": false },
		"storage": { "type": "sqlite" }
	}`)))

	rc := GetReportConfig()
	assert.Equal(t, "never", rc.Color)
	assert.Equal(t, false, rc.KillFeed)
	assert.Equal(t, "sqlite", GetStorageConfig().Type)
}

func TestGetOTelConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{}`)))

	cfg := GetOTelConfig()
	assert.Equal(t, false, cfg.Enabled)
	assert.Equal(t, "missionscore", cfg.ServiceName)
	assert.Equal(t, 5*time.Second, cfg.BatchTimeout)
}

func TestGetOTelConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{
		"otel": {
			"enabled": true,
			"serviceName": "my-service",
			"batchTimeout": "30s"
		}
	}`)))

	oc := GetOTelConfig()
	assert.Equal(t, true, oc.Enabled)
	assert.Equal(t, "my-service", oc.ServiceName)
	assert.Equal(t, 30*time.Second, oc.BatchTimeout)
}
