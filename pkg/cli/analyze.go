package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"

	"github.com/secmon-lab/kiken/pkg/cli/config"
	"github.com/secmon-lab/kiken/pkg/domain/model"
	"github.com/secmon-lab/kiken/pkg/service/classifier"
	"github.com/secmon-lab/kiken/pkg/service/sampler"
	"github.com/secmon-lab/kiken/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdAnalyze() *cli.Command {
	var description string
	var industry string
	var debug bool
	var appCfg config.App
	var datasetCfg config.Dataset
	var geminiCfg config.Gemini

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "description",
			Aliases:     []string{"d"},
			Usage:       "Work description to analyze",
			Required:    true,
			Destination: &description,
		},
		&cli.StringFlag{
			Name:        "industry",
			Aliases:     []string{"i"},
			Usage:       "Industry description for relational matching",
			Destination: &industry,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "Include intermediate matching steps in the report",
			Destination: &debug,
		},
	}

	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, datasetCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)

	return &cli.Command{
		Name:    "analyze",
		Aliases: []string{"a"},
		Usage:   "Run one advisory analysis and print the report",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			tuning, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load application configuration")
			}

			loader, err := datasetCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure dataset source")
			}

			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Gemini client")
			}

			cls, err := classifier.New(llmClient, tuning.ClassifierOptions()...)
			if err != nil {
				return goerr.Wrap(err, "failed to create classifier")
			}

			smp := sampler.New(tuning.SamplerOptions()...)
			uc := usecase.New(loader, cls, usecase.WithSampler(smp))

			result, err := uc.Analyze.Analyze(ctx, usecase.AnalyzeInput{
				Description: description,
				Industry:    industry,
				Debug:       debug,
			})
			if err != nil {
				return goerr.Wrap(err, "analysis failed")
			}

			printReport(result)
			return nil
		},
	}
}

func printReport(result *model.AnalysisResult) {
	title := color.New(color.FgCyan, color.Bold)
	label := color.New(color.FgYellow)
	dim := color.New(color.Faint)

	title.Printf("Analysis %s\n\n", result.ID)

	title.Println("Accident Types")
	for _, t := range result.AccidentTypes {
		fmt.Printf("  - %s", t.Name)
		if t.Description != "" {
			dim.Printf(" (%s)", t.Description)
		}
		fmt.Println()
	}

	if len(result.Videos) > 0 {
		fmt.Println()
		title.Println("Example Videos")
		for _, v := range result.Videos {
			fmt.Printf("  - [%s #%d] %s\n", v.TypeName, v.Index, v.URL)
		}
	}

	if len(result.Cases) > 0 {
		fmt.Println()
		title.Println("Similar Accident Cases")
		for _, c := range result.Cases {
			fmt.Printf("  - %s", c.Title)
			if c.Industry != "" {
				dim.Printf(" [%s]", c.Industry)
			}
			fmt.Println()
		}
	}

	if len(result.Penalties) > 0 {
		fmt.Println()
		title.Println("Applicable Penalty Clauses")
		for _, p := range result.Penalties {
			fmt.Printf("  - %s", p.Title)
			if p.Article != "" {
				dim.Printf(" (%s)", p.Article)
			}
			fmt.Println()
		}
	}

	if len(result.RecommendedActions) > 0 {
		fmt.Println()
		title.Println("Recommended Actions")
		label.Printf("  industry matched: %v\n", result.IndustryMatched)
		for _, a := range result.RecommendedActions {
			fmt.Printf("  - %s\n", a.Name)
		}
	}

	if len(result.FullMatches) > 0 {
		fmt.Println()
		title.Println("Matching Rows")
		for _, m := range result.FullMatches {
			fmt.Printf("  - %s / %s / %s / %s / %s / %s\n",
				m.Industry.Name, m.WorkProcess.Name, m.RiskFactor.Name,
				m.RiskElement.Name, m.HazardItem.Name, m.Countermeasure.Name)
		}
	}

	if result.Debug != nil {
		fmt.Println()
		title.Println("Debug")
		label.Println("  classified industries:")
		for _, name := range result.Debug.ClassifiedIndustries {
			fmt.Printf("    - %s\n", name)
		}
		label.Println("  classified risk elements:")
		for _, name := range result.Debug.ClassifiedRisks {
			fmt.Printf("    - %s\n", name)
		}
		label.Println("  hazard items before filtering:")
		for _, name := range result.Debug.HazardItemNames {
			fmt.Printf("    - %s\n", name)
		}
		label.Println("  hazard items after filtering:")
		for _, name := range result.Debug.FilteredHazardItems {
			fmt.Printf("    - %s\n", name)
		}
	}
}
