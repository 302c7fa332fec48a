package modules

import (
	"context"
	"os"

	"github.com/google/uuid"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/pkoukk/tiktoken-go"

	"github.com/latch-lang/latch/internal/value"
)

// aiModule is the SPEC_FULL.md §3 supplement letting automation scripts
// call out to an LLM the same way they call out to a shell or an HTTP
// endpoint: ai.complete for a single completion request, ai.tokens for a
// local tiktoken-go count (no network round trip needed to budget a
// prompt). ai.complete reads OPENAI_API_KEY / LATCH_AI_MODEL the way
// proc/http read their own env-var knobs; ai.tokens reads neither.
func aiModule() *value.Dict {
	return dictOf(
		builtin("complete", 1, func(a []value.V) (value.V, error) {
			prompt, err := wantString(a, 0, "ai.complete")
			if err != nil {
				return nil, err
			}
			key := os.Getenv("OPENAI_API_KEY")
			if key == "" {
				return nil, valErr("ai.complete: OPENAI_API_KEY is not set")
			}
			model := os.Getenv("LATCH_AI_MODEL")
			if model == "" {
				model = openai.ChatModelGPT4o
			}
			client := openai.NewClient(option.WithAPIKey(key))
			resp, apiErr := client.Chat.Completions.New(context.Background(), openai.ChatCompletionNewParams{
				Model: model,
				Messages: []openai.ChatCompletionMessageParamUnion{
					openai.UserMessage(prompt),
				},
			})
			if apiErr != nil {
				return nil, netErr("ai.complete: %s", apiErr)
			}
			if len(resp.Choices) == 0 {
				return value.String(""), nil
			}
			return value.String(resp.Choices[0].Message.Content), nil
		}),
		builtin("tokens", 1, func(a []value.V) (value.V, error) {
			text, err := wantString(a, 0, "ai.tokens")
			if err != nil {
				return nil, err
			}
			enc, encErr := tiktoken.GetEncoding("cl100k_base")
			if encErr != nil {
				return nil, valErr("ai.tokens: %s", encErr)
			}
			return value.Int(int64(len(enc.Encode(text, nil, nil)))), nil
		}),
		// requestId gives scripts a correlation id for logging an ai.complete
		// call against the surrounding automation run, reusing google/uuid the way the
		// teacher's request-tracing code does.
		builtin("requestId", 0, func(a []value.V) (value.V, error) {
			return value.String(uuid.New().String()), nil
		}),
	)
}
