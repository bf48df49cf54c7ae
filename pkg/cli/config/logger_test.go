package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/kiken/pkg/cli/config"
)

func TestLogger_Configure(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := config.NewLoggerForTest("info", "console", "stdout")
		closer, err := cfg.Configure()
		gt.NoError(t, err).Required()
		closer()
	})

	t.Run("json format to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "kiken.log")
		cfg := config.NewLoggerForTest("debug", "json", path)

		closer, err := cfg.Configure()
		gt.NoError(t, err).Required()
		closer()

		_, err = os.Stat(path)
		gt.NoError(t, err)
	})

	t.Run("rejects invalid level", func(t *testing.T) {
		cfg := config.NewLoggerForTest("verbose", "console", "stdout")
		_, err := cfg.Configure()
		gt.Error(t, err)
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		cfg := config.NewLoggerForTest("info", "xml", "stdout")
		_, err := cfg.Configure()
		gt.Error(t, err)
	})

	t.Run("returns flags", func(t *testing.T) {
		var cfg config.Logger
		gt.Value(t, len(cfg.Flags())).Equal(3)
	})
}
