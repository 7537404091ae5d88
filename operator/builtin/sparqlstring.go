package builtin

import (
	"context"
	"fmt"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/web-algebra/webalgebra/config"
	"github.com/web-algebra/webalgebra/dsl"
	"github.com/web-algebra/webalgebra/rdf"
	"github.com/web-algebra/webalgebra/walerr"
)

const sparqlStringSystemPrompt = "You translate a natural-language instruction into a single SPARQL query. " +
	"Respond with the SPARQL query text only — no prose, no code fences, no explanation."

// sparqlStringOp implements SPARQLString{instruction} (SPEC_FULL.md
// §D): a natural-language-to-SPARQL operator, grounded on the teacher's
// core/model/openai.Model chat-completion wiring, generalized from a
// streaming multi-turn model to one synchronous completion call.
type sparqlStringOp struct {
	context  dsl.Value
	settings *config.Settings
}

func newSPARQLString(s dsl.Settings, ctx dsl.Value) dsl.Operator {
	return &sparqlStringOp{context: ctx, settings: settingsOf(s)}
}

func (o *sparqlStringOp) Metadata() dsl.Metadata {
	return dsl.Metadata{
		Name:        "SPARQLString",
		Description: "Translates a natural-language instruction into a SPARQL query string via an LLM call.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{"instruction": map[string]any{"type": "string"}},
			"required":   []string{"instruction"},
		},
	}
}

func (o *sparqlStringOp) ExecuteJSON(ctx context.Context, args dsl.Args) (dsl.Value, error) {
	if o.settings.OpenAIAPIKey == "" {
		return nil, walerr.Config("SPARQLString", fmt.Errorf("openai_api_key is not configured"))
	}

	instructionV, err := args.Require(ctx, "SPARQLString", "instruction")
	if err != nil {
		return nil, err
	}
	instruction, err := asStringCompatible("SPARQLString", "instruction", instructionV)
	if err != nil {
		return nil, err
	}

	client := openai.NewClient(option.WithAPIKey(o.settings.OpenAIAPIKey))
	completion, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(o.settings.OpenAIModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			{OfSystem: &openai.ChatCompletionSystemMessageParam{
				Content: openai.ChatCompletionSystemMessageParamContentUnion{OfString: openai.String(sparqlStringSystemPrompt)},
			}},
			{OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{OfString: openai.String(instruction.Value())},
			}},
		},
	})
	if err != nil {
		return nil, walerr.Remote("SPARQLString", err)
	}
	if len(completion.Choices) == 0 {
		return nil, walerr.Remote("SPARQLString", fmt.Errorf("model returned no choices"))
	}

	return rdf.NewStringLiteral(completion.Choices[0].Message.Content), nil
}
