package cli_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/kiken/pkg/cli"
)

func TestRun_InvalidLogLevel(t *testing.T) {
	err := cli.Run(context.Background(), []string{"kiken", "--log-level", "verbose", "serve"}, "test")
	gt.Error(t, err)
}

func TestRun_AnalyzeRequiresDescription(t *testing.T) {
	err := cli.Run(context.Background(), []string{"kiken", "analyze"}, "test")
	gt.Error(t, err)
}

func TestRun_AnalyzeRequiresGeminiProject(t *testing.T) {
	err := cli.Run(context.Background(), []string{
		"kiken", "analyze",
		"--description", "배전반 점검 작업",
		"--dataset-dir", t.TempDir(),
	}, "test")
	gt.Error(t, err)
}
