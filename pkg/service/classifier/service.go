package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/kiken/pkg/domain/model"
)

// client implements Service on top of a gollem LLM client
type client struct {
	llmClient        gollem.LLMClient
	maxAccidentTypes int
	maxRiskElements  int
	maxIndustries    int
}

// Option is a functional option for client configuration
type Option func(*client)

// WithMaxAccidentTypes overrides the accident type result cap
func WithMaxAccidentTypes(n int) Option {
	return func(c *client) {
		if n > 0 {
			c.maxAccidentTypes = n
		}
	}
}

// WithMaxRiskElements overrides the risk element result cap
func WithMaxRiskElements(n int) Option {
	return func(c *client) {
		if n > 0 {
			c.maxRiskElements = n
		}
	}
}

// WithMaxIndustries overrides the industry result cap
func WithMaxIndustries(n int) Option {
	return func(c *client) {
		if n > 0 {
			c.maxIndustries = n
		}
	}
}

// New creates a new classifier backed by the provided LLM client
func New(llmClient gollem.LLMClient, opts ...Option) (Service, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}

	c := &client{
		llmClient:        llmClient,
		maxAccidentTypes: DefaultMaxAccidentTypes,
		maxRiskElements:  DefaultMaxRiskElements,
		maxIndustries:    DefaultMaxIndustries,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *client) AccidentTypes(ctx context.Context, description string, catalog []model.AccidentType) ([]model.AccidentType, error) {
	var sb strings.Builder
	sb.WriteString("You are an industrial safety expert. Analyze a work description and identify which industrial accident types could occur during that work.\n\n")
	fmt.Fprintf(&sb, "Choose at most %d accident types from the following catalog, ordered by likelihood:\n\n", c.maxAccidentTypes)
	for _, t := range catalog {
		fmt.Fprintf(&sb, "%d. %s: %s (examples: %s)\n", t.ID, t.Name, t.Description, strings.Join(t.Examples, ", "))
	}
	sb.WriteString("\n## Rules:\n")
	sb.WriteString("1. Only choose entries from the catalog above, using their exact id and name.\n")
	sb.WriteString("2. Order the result by likelihood, most likely first.\n")
	sb.WriteString("3. If nothing applies, return an empty array.\n")

	schema := &gollem.Parameter{
		Title:       "AccidentTypeClassification",
		Description: "Accident types likely to occur during the described work",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"accident_types": {
				Type:        gollem.TypeArray,
				Description: "Selected accident types, most likely first",
				Items: &gollem.Parameter{
					Type: gollem.TypeObject,
					Properties: map[string]*gollem.Parameter{
						"id": {
							Type:        gollem.TypeInteger,
							Description: "The catalog ID of the accident type",
							Required:    true,
						},
						"name": {
							Type:        gollem.TypeString,
							Description: "The exact catalog name of the accident type",
							Required:    true,
						},
					},
				},
				Required: true,
			},
		},
	}

	prompt := fmt.Sprintf("Select the accident types that could occur during the following work.\n\nWork description: %s", description)

	var parsed accidentTypeResponse
	if err := c.generate(ctx, sb.String(), schema, prompt, &parsed); err != nil {
		return nil, goerr.Wrap(err, "failed to classify accident types")
	}

	// Post-filter: the model output is untrusted, keep only catalog entries
	byID := make(map[int]model.AccidentType, len(catalog))
	for _, t := range catalog {
		byID[t.ID] = t
	}

	var valid []model.AccidentType
	for _, sel := range parsed.AccidentTypes {
		if t, ok := byID[sel.ID]; ok {
			valid = append(valid, t)
		}
	}

	if len(valid) > c.maxAccidentTypes {
		valid = valid[:c.maxAccidentTypes]
	}
	return valid, nil
}

func (c *client) RiskElements(ctx context.Context, description string, vocabulary []string) ([]string, error) {
	var sb strings.Builder
	sb.WriteString("You are an industrial safety expert. Analyze a work description and identify the most dangerous-looking risk elements.\n\n")
	fmt.Fprintf(&sb, "Choose at most %d risk elements from the following %d entries:\n%s\n\n", c.maxRiskElements, len(vocabulary), strings.Join(vocabulary, "|"))
	sb.WriteString("Only choose entries from the list above, using their exact names. If nothing applies, return an empty array.\n")

	prompt := fmt.Sprintf("Select the most dangerous-looking risk elements for the following work.\n\nWork description: %s", description)

	names, err := c.generateNames(ctx, sb.String(), "Risk elements most relevant to the described work", prompt)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to classify risk elements")
	}

	valid := filterByVocabulary(names, vocabulary)
	if len(valid) > c.maxRiskElements {
		valid = valid[:c.maxRiskElements]
	}
	return valid, nil
}

func (c *client) Industries(ctx context.Context, description string, vocabulary []string) ([]string, error) {
	var sb strings.Builder
	sb.WriteString("You are an industry classification expert. Map a natural-language description of someone's work to the closest standard industry names.\n\n")
	fmt.Fprintf(&sb, "Choose at most %d industries from the following %d entries:\n%s\n\n", c.maxIndustries, len(vocabulary), strings.Join(vocabulary, "\n"))
	sb.WriteString("Only choose entries from the list above, using their exact names. If nothing matches, return an empty array.\n")

	prompt := fmt.Sprintf("Select the industries closest to the following description.\n\nIndustry description: %s", description)

	names, err := c.generateNames(ctx, sb.String(), "Standard industries closest to the description", prompt)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to classify industries")
	}

	valid := filterByVocabulary(names, vocabulary)
	if len(valid) > c.maxIndustries {
		valid = valid[:c.maxIndustries]
	}
	return valid, nil
}

func (c *client) FilterHazardItems(ctx context.Context, description string, riskElements, hazardItems []string) ([]string, error) {
	var sb strings.Builder
	sb.WriteString("You are an industrial safety expert. Keep only the hazard items directly related to a described work situation.\n\n")
	fmt.Fprintf(&sb, "Already identified risk elements: %s\n\n", strings.Join(riskElements, ", "))
	sb.WriteString("The candidate hazard items below are known to be linked to those risk elements. ")
	sb.WriteString("Select only the items with a direct relation to the described work; drop anything of low or unclear relevance.\n")

	prompt := fmt.Sprintf("Select the related hazard items for the following work.\n\nWork description: %s\n\nHazard items:\n- %s",
		description, strings.Join(hazardItems, "\n- "))

	names, err := c.generateNames(ctx, sb.String(), "Hazard items directly related to the described work", prompt)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to filter hazard items")
	}

	return filterByVocabulary(names, hazardItems), nil
}

// generateNames runs a name-list classification session
func (c *client) generateNames(ctx context.Context, systemPrompt, description, prompt string) ([]string, error) {
	schema := &gollem.Parameter{
		Title:       "NameSelection",
		Description: description,
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"names": {
				Type:        gollem.TypeArray,
				Description: "Selected names, exactly as they appear in the provided list",
				Items: &gollem.Parameter{
					Type: gollem.TypeString,
				},
				Required: true,
			},
		},
	}

	var parsed nameListResponse
	if err := c.generate(ctx, systemPrompt, schema, prompt, &parsed); err != nil {
		return nil, err
	}
	return parsed.Names, nil
}

// generate runs one JSON-schema constrained session and unmarshals the
// response into out
func (c *client) generate(ctx context.Context, systemPrompt string, schema *gollem.Parameter, prompt string, out any) error {
	session, err := c.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(schema),
		gollem.WithSessionSystemPrompt(systemPrompt),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(prompt))
	if err != nil {
		return goerr.Wrap(err, "failed to generate content from LLM")
	}
	if len(resp.Texts) == 0 {
		return goerr.New("LLM returned an empty response")
	}

	if err := json.Unmarshal([]byte(resp.Texts[0]), out); err != nil {
		return goerr.Wrap(err, "failed to parse LLM response", goerr.V("response", resp.Texts[0]))
	}

	return nil
}

// filterByVocabulary keeps names present in the vocabulary, preserving
// result order
func filterByVocabulary(names, vocabulary []string) []string {
	known := make(map[string]struct{}, len(vocabulary))
	for _, v := range vocabulary {
		known[v] = struct{}{}
	}

	var valid []string
	for _, name := range names {
		if _, ok := known[name]; ok {
			valid = append(valid, name)
		}
	}
	return valid
}
