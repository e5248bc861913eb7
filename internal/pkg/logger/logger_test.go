package logger

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func resetLogger() {
	global = nil
	once = sync.Once{}
}

func TestInit(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		format    string
		wantLevel zapcore.Level
		wantErr   bool
	}{
		{"json info", "info", "json", zapcore.InfoLevel, false},
		{"console debug", "debug", "console", zapcore.DebugLevel, false},
		{"json warn", "warn", "json", zapcore.WarnLevel, false},
		{"invalid level", "loud", "json", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetLogger()
			err := Init(tt.level, tt.format)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLevel, GetLevel())
		})
	}
}

func TestSetLevel(t *testing.T) {
	resetLogger()
	require.NoError(t, Init("info", "json"))

	require.NoError(t, SetLevel("debug"))
	assert.Equal(t, zapcore.DebugLevel, GetLevel())
	assert.Equal(t, zapcore.DebugLevel, HTTPHandler().Level())

	require.Error(t, SetLevel("bogus"))
	assert.Equal(t, zapcore.DebugLevel, GetLevel())

	require.NoError(t, SetLevel("info"))
}

func TestL_NopBeforeInit(t *testing.T) {
	resetLogger()

	require.NotPanics(t, func() {
		L().Info("dropped")
		Named("scheduler").Warn("dropped")
	})
	assert.Nil(t, global)
}

func TestHelpers(t *testing.T) {
	resetLogger()
	require.NoError(t, Init("error", "json"))

	assert.NotNil(t, S())
	assert.NotNil(t, With())
	assert.NotNil(t, Named("scheduler"))

	Debug("debug")
	Info("info")
	Warn("warn")
	Error("error")
}

func TestDispatch_TagsKindAndID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	resetLogger()
	global = zap.New(core)
	t.Cleanup(resetLogger)

	Dispatch("campaign", 7).Info("campaign dispatched")
	Dispatch("post", 3).Warn("post claim released")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "dispatch", entries[0].LoggerName)
	assert.Equal(t, map[string]interface{}{"kind": "campaign", "campaign_id": int64(7)}, entries[0].ContextMap())
	assert.Equal(t, map[string]interface{}{"kind": "post", "post_id": int64(3)}, entries[1].ContextMap())
}

func TestSync(t *testing.T) {
	resetLogger()
	require.NoError(t, Sync())

	require.NoError(t, Init("info", "json"))
	// stderr sync may fail under the test runner
	_ = Sync()
}
