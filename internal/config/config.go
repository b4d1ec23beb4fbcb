package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	AppConfig      *AppConfig
	DetectorConfig *DetectorConfig
	BrowserConfig  *BrowserConfig
	WatchConfig    *WatchConfig
}

type AppConfig struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`

	// TraceOutput is "stdout", "stderr", "none" or a file path.
	TraceOutput string `envconfig:"TRACE_OUTPUT" default:"none"`
}

type DetectorConfig struct {
	MaxInputs         int      `envconfig:"DETECTOR_MAX_INPUTS" default:"100"`
	MinSize           float64  `envconfig:"DETECTOR_MIN_SIZE" default:"8"`
	MaskClass         string   `envconfig:"DETECTOR_MASK_CLASS" default:"misc-hidden"`
	SingleInputHosts  []string `envconfig:"DETECTOR_SINGLE_INPUT_HOSTS"`
	IgnoredNamePrefix []string `envconfig:"DETECTOR_IGNORED_NAME_PREFIXES" default:"YTMUSIC,YT-"`
}

type BrowserConfig struct {
	Headless       bool   `envconfig:"BROWSER_HEADLESS" default:"false"`
	SlowMo         int    `envconfig:"BROWSER_SLOW_MO" default:"0"`
	Timeout        int    `envconfig:"BROWSER_TIMEOUT" default:"30000"`
	UserDataDir    string `envconfig:"BROWSER_USER_DATA_DIR" default:""`
	ViewportWidth  int    `envconfig:"BROWSER_VIEWPORT_WIDTH" default:"1280"`
	ViewportHeight int    `envconfig:"BROWSER_VIEWPORT_HEIGHT" default:"720"`
}

type WatchConfig struct {
	Enabled       bool          `envconfig:"WATCH_ENABLED" default:"true"`
	Interval      time.Duration `envconfig:"WATCH_INTERVAL" default:"500ms"`
	RedetectDelay time.Duration `envconfig:"WATCH_REDETECT_DELAY" default:"2s"`
}

func GetConfig() (*Config, error) {
	_ = godotenv.Load()

	var conf Config

	if err := envconfig.Process("", &conf); err != nil {
		return nil, fmt.Errorf("read config from env vars: %w", err)
	}

	return &conf, nil
}
