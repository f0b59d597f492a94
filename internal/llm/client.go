package llm

import (
	"context"
)

// Client generates a completion for a solving or explanation prompt. The
// returned string is the provider's raw text; callers are responsible for
// decoding whatever JSON the model managed to produce.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
