package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/kiken/pkg/service/classifier"
	"github.com/secmon-lab/kiken/pkg/service/sampler"
	"github.com/urfave/cli/v3"
)

// AppConfig represents tunable analysis parameters loaded from a TOML file
type AppConfig struct {
	Classifier ClassifierConfig `toml:"classifier"`
	Sampler    SamplerConfig    `toml:"sampler"`
}

// ClassifierConfig limits how many entries the classifier may return per
// vocabulary
type ClassifierConfig struct {
	MaxAccidentTypes int `toml:"max_accident_types"`
	MaxRiskElements  int `toml:"max_risk_elements"`
	MaxIndustries    int `toml:"max_industries"`
}

// SamplerConfig limits how much illustrative material one analysis carries
type SamplerConfig struct {
	VideosPerType int `toml:"videos_per_type"`
	MaxCases      int `toml:"max_cases"`
}

// Validate checks if the AppConfig is valid
func (a *AppConfig) Validate() error {
	if a.Classifier.MaxAccidentTypes < 0 {
		return goerr.New("max_accident_types must not be negative", goerr.V("value", a.Classifier.MaxAccidentTypes))
	}
	if a.Classifier.MaxRiskElements < 0 {
		return goerr.New("max_risk_elements must not be negative", goerr.V("value", a.Classifier.MaxRiskElements))
	}
	if a.Classifier.MaxIndustries < 0 {
		return goerr.New("max_industries must not be negative", goerr.V("value", a.Classifier.MaxIndustries))
	}
	if a.Sampler.VideosPerType < 0 {
		return goerr.New("videos_per_type must not be negative", goerr.V("value", a.Sampler.VideosPerType))
	}
	if a.Sampler.MaxCases < 0 {
		return goerr.New("max_cases must not be negative", goerr.V("value", a.Sampler.MaxCases))
	}
	return nil
}

// ClassifierOptions converts the configured caps to classifier options.
// Zero values keep the defaults.
func (a *AppConfig) ClassifierOptions() []classifier.Option {
	var opts []classifier.Option
	if a.Classifier.MaxAccidentTypes > 0 {
		opts = append(opts, classifier.WithMaxAccidentTypes(a.Classifier.MaxAccidentTypes))
	}
	if a.Classifier.MaxRiskElements > 0 {
		opts = append(opts, classifier.WithMaxRiskElements(a.Classifier.MaxRiskElements))
	}
	if a.Classifier.MaxIndustries > 0 {
		opts = append(opts, classifier.WithMaxIndustries(a.Classifier.MaxIndustries))
	}
	return opts
}

// SamplerOptions converts the configured caps to sampler options. Zero
// values keep the defaults.
func (a *AppConfig) SamplerOptions() []sampler.Option {
	var opts []sampler.Option
	if a.Sampler.VideosPerType > 0 {
		opts = append(opts, sampler.WithVideosPerType(a.Sampler.VideosPerType))
	}
	if a.Sampler.MaxCases > 0 {
		opts = append(opts, sampler.WithMaxCases(a.Sampler.MaxCases))
	}
	return opts
}

// App holds the path to the optional application configuration file
type App struct {
	path string
}

// Flags returns CLI flags for application configuration
func (a *App) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Path to TOML file with analysis tuning parameters",
			Sources:     cli.EnvVars("KIKEN_CONFIG"),
			Destination: &a.path,
		},
	}
}

// Configure loads the application configuration. When no path is
// configured an empty configuration with all defaults is returned.
func (a *App) Configure() (*AppConfig, error) {
	if a.path == "" {
		return &AppConfig{}, nil
	}
	return LoadAppConfiguration(a.path)
}

// LoadAppConfiguration loads analysis tuning parameters from a TOML file
func LoadAppConfiguration(path string) (*AppConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", path))
	}

	var config AppConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML config", goerr.V("path", path))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V("path", path))
	}

	return &config, nil
}
