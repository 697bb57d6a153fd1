package partlink

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/gearboxapp/gearbox-backend/pkg/config"
	"github.com/gearboxapp/gearbox-backend/pkg/db/models"
	pkgerrors "github.com/gearboxapp/gearbox-backend/pkg/errors"
)

// Extractor is the model-facing half of the pipeline. Both calls return raw
// model output; the service owns parsing and validation so extractor
// implementations stay swappable in tests.
type Extractor interface {
	ExtractFields(ctx context.Context, pageText string) (string, error)
	ClassifyPartType(ctx context.Context, partName, description string, types []models.PartType) (string, error)
}

const extractSystemPrompt = `You read automotive product pages and return structured data.
Respond with a single JSON object and nothing else, using exactly these keys:
{"brand": string, "part_name": string, "part_number": string or null, "image_url": string or null, "description": string or null}
The brand is the part manufacturer, not the retailer. If a field is not present on the page, use null.`

const classifySystemPrompt = `You categorize automotive parts.
Given a part and a numbered list of categories, respond with the single integer id of the best matching category and nothing else.`

type anthropicExtractor struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewAnthropicExtractor builds the production extractor.
func NewAnthropicExtractor(cfg config.AnthropicConfig) (Extractor, error) {
	if cfg.APIKey == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "anthropic api key is required")
	}
	return &anthropicExtractor{
		client: anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:  anthropic.Model(cfg.Model),
	}, nil
}

func (e *anthropicExtractor) ExtractFields(ctx context.Context, pageText string) (string, error) {
	return e.complete(ctx, extractSystemPrompt, pageText)
}

func (e *anthropicExtractor) ClassifyPartType(ctx context.Context, partName, description string, types []models.PartType) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Part: %s\n", partName)
	if description != "" {
		fmt.Fprintf(&sb, "Description: %s\n", description)
	}
	sb.WriteString("Categories:\n")
	for _, pt := range types {
		fmt.Fprintf(&sb, "%d: %s\n", pt.ID, pt.Name)
	}
	return e.complete(ctx, classifySystemPrompt, sb.String())
}

func (e *anthropicExtractor) complete(ctx context.Context, system, user string) (string, error) {
	message, err := e.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     e.model,
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Type: "text", Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "calling extraction model")
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}
