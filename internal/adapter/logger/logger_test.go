package logger_test

import (
	"testing"

	"github.com/MikeRez0/conciliator/internal/adapter/config"
	"github.com/MikeRez0/conciliator/internal/adapter/logger"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name     string
		conf     config.App
		expError bool
		expLevel zapcore.Level
	}{
		{name: "dev debug", conf: config.App{LogLevel: "debug", Mode: config.AppModeDevelop}, expLevel: zapcore.DebugLevel},
		{name: "prod error", conf: config.App{LogLevel: "error", Mode: config.AppModeProduction}, expLevel: zapcore.ErrorLevel},
		{name: "bad level", conf: config.App{LogLevel: "loud", Mode: config.AppModeDevelop}, expError: true},
		{name: "bad mode", conf: config.App{LogLevel: "info", Mode: "TEST"}, expError: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			log, err := logger.NewLogger(&test.conf)
			if test.expError {
				assert.Error(t, err)
				assert.Nil(t, log)
				return
			}
			assert.NoError(t, err)
			assert.True(t, log.Core().Enabled(test.expLevel))
			assert.False(t, log.Core().Enabled(test.expLevel-1))
		})
	}
}
