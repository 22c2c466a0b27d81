package types

import "image"

// Provider identifies the inference backend that serves a model. Routing
// decisions switch on this tag, never on display-name content.
type Provider string

const (
	ProviderOpenRouter  Provider = "OpenRouter"
	ProviderHuggingFace Provider = "Hugging Face"
	ProviderLocal       Provider = "Local"
	ProviderUnknown     Provider = "Unknown"
)

// ModelRef pairs a human-readable model label with the identifier the
// provider API expects. The display name may carry a decorative marker
// prefix; the Provider tag is the only routing key.
type ModelRef struct {
	DisplayName string   `json:"display_name"`
	ID          string   `json:"id"`
	Provider    Provider `json:"provider"`
}

// ImageInfo contains basic metadata about a normalized image
type ImageInfo struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
	Mode   string `json:"mode"`
}

// NormalizedImage is the outcome of the preparation pipeline: a decoded
// bitmap converted to an opaque 3-channel mode and downsampled to fit the
// configured bounding box. It is owned by the call that produced it and
// must not be shared or cached across requests.
type NormalizedImage struct {
	Image  image.Image
	Width  int
	Height int
	Format string
	Mode   string
}

// Info returns the image metadata as a single record
func (n *NormalizedImage) Info() ImageInfo {
	return ImageInfo{
		Width:  n.Width,
		Height: n.Height,
		Format: n.Format,
		Mode:   n.Mode,
	}
}

// AnalysisRequest carries everything one provider call needs
type AnalysisRequest struct {
	Image string
	Model ModelRef
}

// AnalysisResult is the tagged outcome of one provider call. Exactly one of
// Analysis and Err is populated; use the Success and Failure constructors.
type AnalysisResult struct {
	Analysis string   `json:"analysis,omitempty"`
	Err      string   `json:"error,omitempty"`
	Model    string   `json:"model"`
	Provider Provider `json:"provider"`
}

// Success builds a successful result carrying the analysis text verbatim
func Success(analysis, model string, provider Provider) AnalysisResult {
	return AnalysisResult{Analysis: analysis, Model: model, Provider: provider}
}

// Failure builds a failed result carrying the error message for display
func Failure(errMsg, model string, provider Provider) AnalysisResult {
	return AnalysisResult{Err: errMsg, Model: model, Provider: provider}
}

// OK reports whether the call produced an analysis
func (r AnalysisResult) OK() bool {
	return r.Err == ""
}
