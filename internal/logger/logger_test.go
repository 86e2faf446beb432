package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLoggerUsableBeforeInitialize(t *testing.T) {
	require.NotNil(t, Logger)
	assert.NotPanics(t, func() {
		Infow("before init", FieldCount, 1)
	})
}

func TestInitializeLevels(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel},
		{"", zapcore.InfoLevel},
		{"nonsense", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			require.NoError(t, Initialize(false, tt.level))
			assert.True(t, Logger.Desugar().Core().Enabled(tt.want))
			if tt.want > zapcore.DebugLevel {
				assert.False(t, Logger.Desugar().Core().Enabled(tt.want-1))
			}
		})
	}
}

func TestInitializeJSON(t *testing.T) {
	require.NoError(t, Initialize(true, "info"))
	assert.True(t, JSONOutput)
	Initialize(false, "info")
	assert.False(t, JSONOutput)
}

func TestComponentLogger(t *testing.T) {
	require.NoError(t, Initialize(false, "info"))
	l := ChildLogger(ComponentLogger("board"), FieldCycleID, "abc")
	assert.NotNil(t, l)
}
