package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitLogger_FileOutput(t *testing.T) {
	t.Cleanup(func() { Log = zap.NewNop().Sugar() })

	for _, rotate := range []bool{true, false} {
		path := filepath.Join(t.TempDir(), "bot.log")
		cfg := LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "file",
			FilePath: path,
			Rotation: RotationConfig{Enabled: rotate, MaxSize: 1},
		}

		require.NoError(t, InitLogger(cfg))
		Log.Debugw("hidden")
		Log.Infow("move sent", "move", "1|2")
		SyncLogger()

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"msg":"move sent"`)
		assert.Contains(t, string(data), `"move":"1|2"`)
		assert.NotContains(t, string(data), "hidden")
	}
}

func TestInitLogger_Errors(t *testing.T) {
	t.Cleanup(func() { Log = zap.NewNop().Sugar() })

	assert.Error(t, InitLogger(LoggingConfig{Level: "loud", Output: "stdout"}))
	assert.Error(t, InitLogger(LoggingConfig{Level: "info", Output: "file"}))
	assert.Error(t, InitLogger(LoggingConfig{Level: "info", Output: "syslog"}))
}
