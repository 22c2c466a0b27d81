package client

import "context"

// VisionClient is the provider strategy: one synchronous call that sends a
// prompt and a base64-encoded image to a vision model and returns the
// model's free-text answer.
type VisionClient interface {
	Analyze(ctx context.Context, modelID, prompt, imgB64 string) (string, error)
}
