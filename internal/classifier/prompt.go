package classifier

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// systemPrompt instructs the model to reply with the classification object.
const systemPrompt = `You label messages posted in a programming help channel so a discussion thread can be opened for them.

Reply with a single JSON object and nothing else:

{"short_title": string, "has_code_examples": boolean, "has_code_fences": boolean}

- short_title: a concise title for the thread, at most 8 words, no trailing punctuation, no quotes.
- has_code_examples: true if the message contains source code, stack traces or terminal commands.
- has_code_fences: true if that code is wrapped in markdown code fences (three backticks).`

// budget trims message text to a token budget before it is sent to the model.
type budget struct {
	tokenizer *tiktoken.Tiktoken
	maxTokens int
}

// newBudget selects the tokenizer for model, falling back to cl100k_base for
// unknown models.
func newBudget(model string, maxTokens int) (*budget, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, fmt.Errorf("get tokenizer: %w", err)
		}
	}
	return &budget{tokenizer: enc, maxTokens: maxTokens}, nil
}

// trim returns text cut to at most maxTokens tokens. A non-positive budget
// disables trimming.
func (b *budget) trim(text string) string {
	if b.maxTokens <= 0 {
		return text
	}
	tokens := b.tokenizer.Encode(text, nil, nil)
	if len(tokens) <= b.maxTokens {
		return text
	}
	return b.tokenizer.Decode(tokens[:b.maxTokens])
}
