package analysis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	openaishared "github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
)

// Agent asks the OpenAI Responses API for a structured analysis.
type Agent struct {
	client *openai.Client
	model  string
}

func NewAgent(apiKey, model string) *Agent {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Agent{client: &client, model: model}
}

func (a *Agent) Analyze(ctx context.Context, prompt string) (*Analysis, error) {
	schemaJSON, err := json.Marshal(analysisSchema())
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return nil, fmt.Errorf("unmarshal schema to map: %w", err)
	}

	params := responses.ResponseNewParams{
		Model: openaishared.ResponsesModel(a.model),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(prompt),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "business_analysis",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("An analysis of the business figures in the prompt"),
				},
			},
		},
	}

	resp, err := a.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai responses error: %w", err)
	}

	content := resp.OutputText()
	if content == "" {
		return nil, fmt.Errorf("empty response content")
	}

	var result Analysis
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("parse completion: %w", err)
	}
	return &result, nil
}

func analysisSchema() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v Analysis
	return reflector.Reflect(v)
}
