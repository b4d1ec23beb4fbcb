package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	conf, err := GetConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", conf.AppConfig.LogLevel)
	assert.Equal(t, "none", conf.AppConfig.TraceOutput)

	assert.Equal(t, 100, conf.DetectorConfig.MaxInputs)
	assert.Equal(t, 8.0, conf.DetectorConfig.MinSize)
	assert.Equal(t, "misc-hidden", conf.DetectorConfig.MaskClass)
	assert.Empty(t, conf.DetectorConfig.SingleInputHosts)
	assert.Equal(t, []string{"YTMUSIC", "YT-"}, conf.DetectorConfig.IgnoredNamePrefix)

	assert.Equal(t, 1280, conf.BrowserConfig.ViewportWidth)
	assert.Equal(t, 720, conf.BrowserConfig.ViewportHeight)
	assert.Equal(t, 30000, conf.BrowserConfig.Timeout)

	assert.True(t, conf.WatchConfig.Enabled)
	assert.Equal(t, 500*time.Millisecond, conf.WatchConfig.Interval)
	assert.Equal(t, 2*time.Second, conf.WatchConfig.RedetectDelay)
}

func TestGetConfig_Env(t *testing.T) {
	chdir(t, t.TempDir())

	t.Setenv("DETECTOR_MAX_INPUTS", "50")
	t.Setenv("DETECTOR_SINGLE_INPUT_HOSTS", "accounts.example.test,login.example.test")
	t.Setenv("DETECTOR_MASK_CLASS", "cm-masked")
	t.Setenv("WATCH_ENABLED", "false")
	t.Setenv("WATCH_INTERVAL", "1s")
	t.Setenv("BROWSER_HEADLESS", "true")

	conf, err := GetConfig()
	require.NoError(t, err)

	assert.Equal(t, 50, conf.DetectorConfig.MaxInputs)
	assert.Equal(t, []string{"accounts.example.test", "login.example.test"}, conf.DetectorConfig.SingleInputHosts)
	assert.Equal(t, "cm-masked", conf.DetectorConfig.MaskClass)
	assert.False(t, conf.WatchConfig.Enabled)
	assert.Equal(t, time.Second, conf.WatchConfig.Interval)
	assert.True(t, conf.BrowserConfig.Headless)
}

func TestGetConfig_Invalid(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DETECTOR_MAX_INPUTS", "many")

	_, err := GetConfig()
	require.Error(t, err)
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
