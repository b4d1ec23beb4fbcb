package bootstrap

import (
	"credmask/internal/config"

	"go.uber.org/zap"
)

func newLogger(config *config.Config) (*zap.Logger, error) {
	return NewLogger(config.AppConfig)
}

// NewLogger builds the process logger. It is also used by the offline
// inspect command, which runs without the fx graph.
func NewLogger(c *config.AppConfig) (*zap.Logger, error) {
	var zapConfig zap.Config

	if c.Debug {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
	}

	zapConfig.DisableStacktrace = true
	// stdout belongs to the console and to inspect's report.
	zapConfig.OutputPaths = []string{"stderr"}

	switch c.LogLevel {
	case "debug":
		zapConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapConfig.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapConfig.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapConfig.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	return logger, nil
}
