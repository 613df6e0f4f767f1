// Package vision wraps a multimodal model behind a contract that never fails:
// provider problems come back as text inside an Outcome.
package vision

import "context"

// Engine is a hosted vision model. Implementations return raw errors;
// Analyzer turns them into Outcomes.
type Engine interface {
	Name() string
	GetModel() string
	// Configured is false when no credential is set. No network call is made then.
	Configured() bool
	Describe(ctx context.Context, image []byte, mime, prompt string) (string, error)
	// Labels returns the raw model text for the label prompt, expected to be a JSON array.
	Labels(ctx context.Context, image []byte, mime, prompt string) (string, error)
}
