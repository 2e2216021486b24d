package cmd

import (
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigConstants(t *testing.T) {
	assert.Equal(t, "testtree", configBaseName)
	assert.Equal(t, "testtree.yaml", configFileName)
	assert.Equal(t, ".", configFolderPath)
	assert.Equal(t, "TESTTREE", envPrefix)
	assert.Equal(t, "explorer.on_start", explorerOnStartKey)
	assert.Equal(t, "explorer.on_reload", explorerOnReloadKey)
	assert.Equal(t, "explorer.code_lens", explorerCodeLensKey)
	assert.Equal(t, "explorer.gutter_decoration", explorerGutterDecorationKey)
	assert.Equal(t, "explorer.error_decoration", explorerErrorDecorationKey)
	assert.Equal(t, "explorer.debounce", explorerDebounceKey)
}

func TestConfigVersionConstants(t *testing.T) {
	assert.Equal(t, "version", configVersionKey)
	assert.Equal(t, 1, currentConfigVersion)
}

func TestConfigDefaults(t *testing.T) {
	assert.Equal(t, "nothing", viper.GetString(explorerOnStartKey))
	assert.Equal(t, "nothing", viper.GetString(explorerOnReloadKey))
	assert.True(t, viper.GetBool(explorerCodeLensKey))
	assert.True(t, viper.GetBool(explorerGutterDecorationKey))
	assert.True(t, viper.GetBool(explorerErrorDecorationKey))
	assert.Equal(t, 200*time.Millisecond, viper.GetDuration(explorerDebounceKey))
	assert.Equal(t, 10*time.Minute, viper.GetDuration(runPackageTimeout))
}

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		value string
		want  slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{" INFO ", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"-4", slog.LevelDebug},
		{"loud", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSlogLevel(tt.value, slog.LevelInfo))
		})
	}
}

func TestConfigureLogger_Verbose(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	configureLogger(filepath.Join(t.TempDir(), "testtree.log"), true)

	require.NotNil(t, globalLogger)
	assert.True(t, slog.Default().Enabled(t.Context(), slog.LevelDebug))
}
