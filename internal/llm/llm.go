package llm

import "context"

// TextGenerator is an interface for generating text from a prompt. The
// planner uses it for per-stage narration only; nothing downstream ever
// reads the generated text back.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Closer is an interface for closing resources.
type Closer interface {
	Close() error
}
