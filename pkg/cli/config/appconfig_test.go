package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/kiken/pkg/cli/config"
)

func TestLoadAppConfiguration(t *testing.T) {
	t.Run("loads tuning parameters", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := `
[classifier]
max_accident_types = 5
max_risk_elements = 3

[sampler]
videos_per_type = 1
max_cases = 10
`
		gt.NoError(t, os.WriteFile(path, []byte(content), 0o600)).Required()

		cfg, err := config.LoadAppConfiguration(path)
		gt.NoError(t, err).Required()

		gt.Value(t, cfg.Classifier.MaxAccidentTypes).Equal(5)
		gt.Value(t, cfg.Classifier.MaxRiskElements).Equal(3)
		gt.Value(t, cfg.Classifier.MaxIndustries).Equal(0)
		gt.Value(t, cfg.Sampler.VideosPerType).Equal(1)
		gt.Value(t, cfg.Sampler.MaxCases).Equal(10)

		// Unset caps produce no options
		gt.Array(t, cfg.ClassifierOptions()).Length(2)
		gt.Array(t, cfg.SamplerOptions()).Length(2)
	})

	t.Run("rejects negative caps", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := `
[sampler]
max_cases = -1
`
		gt.NoError(t, os.WriteFile(path, []byte(content), 0o600)).Required()

		_, err := config.LoadAppConfiguration(path)
		gt.Error(t, err)
	})

	t.Run("rejects malformed TOML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		gt.NoError(t, os.WriteFile(path, []byte("[classifier"), 0o600)).Required()

		_, err := config.LoadAppConfiguration(path)
		gt.Error(t, err)
	})

	t.Run("fails on missing file", func(t *testing.T) {
		_, err := config.LoadAppConfiguration(filepath.Join(t.TempDir(), "nonexistent.toml"))
		gt.Error(t, err)
	})
}

func TestAppConfig_EmptyDefaults(t *testing.T) {
	var cfg config.AppConfig
	gt.NoError(t, cfg.Validate())
	gt.Array(t, cfg.ClassifierOptions()).Length(0)
	gt.Array(t, cfg.SamplerOptions()).Length(0)
}
