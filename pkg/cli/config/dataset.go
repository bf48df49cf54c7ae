package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kiken/pkg/domain/interfaces"
	"github.com/secmon-lab/kiken/pkg/repository/dataset"
	"github.com/urfave/cli/v3"
)

// Dataset holds configuration for the safety dataset source
type Dataset struct {
	backend string
	dir     string
	baseURL string
}

// Flags returns CLI flags for dataset source configuration
func (d *Dataset) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "dataset-backend",
			Usage:       "Dataset source backend (dir or http)",
			Value:       "dir",
			Sources:     cli.EnvVars("KIKEN_DATASET_BACKEND"),
			Destination: &d.backend,
		},
		&cli.StringFlag{
			Name:        "dataset-dir",
			Usage:       "Directory holding the dataset JSON files (dir backend)",
			Value:       "./data",
			Sources:     cli.EnvVars("KIKEN_DATASET_DIR"),
			Destination: &d.dir,
		},
		&cli.StringFlag{
			Name:        "dataset-base-url",
			Usage:       "Base URL serving the dataset JSON files (http backend)",
			Sources:     cli.EnvVars("KIKEN_DATASET_BASE_URL"),
			Destination: &d.baseURL,
		},
	}
}

// LogValue implements slog.LogValuer
func (d Dataset) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", d.backend),
		slog.String("dir", d.dir),
		slog.String("base_url", d.baseURL),
	)
}

// Configure builds the dataset source and loader from the configured flags
func (d *Dataset) Configure() (*dataset.Loader, error) {
	var source interfaces.Source
	switch d.backend {
	case "dir", "":
		if d.dir == "" {
			return nil, goerr.New("dataset-dir is required for dir backend")
		}
		source = dataset.NewDir(d.dir)

	case "http":
		if d.baseURL == "" {
			return nil, goerr.New("dataset-base-url is required for http backend")
		}
		src, err := dataset.NewHTTP(d.baseURL)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create http dataset source")
		}
		source = src

	default:
		return nil, goerr.New("invalid dataset backend", goerr.V("backend", d.backend))
	}

	return dataset.New(source), nil
}
