package completion

import "context"

// Completer sends one prompt to a language model and returns the full response text.
// An empty systemPrompt sends the user prompt alone. Calls are attempted once;
// failures are reported as apperr.ErrCompletion by the caller.
type Completer interface {
	Complete(ctx context.Context, userPrompt, systemPrompt string) (string, error)
}
