package analysis

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/jildai/skin-analyzer/internal/config"
	"github.com/jildai/skin-analyzer/pkg/client"
	"github.com/jildai/skin-analyzer/pkg/huggingface"
	"github.com/jildai/skin-analyzer/pkg/local"
	"github.com/jildai/skin-analyzer/pkg/openrouter"
	"github.com/jildai/skin-analyzer/pkg/types"
)

// Analyzer dispatches one analysis call to the provider backing the
// selected model. Every provider failure is converted into a failure
// result; nothing propagates to the caller as an error.
type Analyzer struct {
	clients map[types.Provider]client.VisionClient
	log     *logrus.Logger
}

// New builds an Analyzer with one client per configured provider
func New(cfg *config.Config, log *logrus.Logger) *Analyzer {
	if log == nil {
		log = logrus.New()
	}

	clients := make(map[types.Provider]client.VisionClient)

	if cfg.IsOpenRouterConfigured() {
		clients[types.ProviderOpenRouter] = openrouter.NewClient(cfg.OpenRouterBaseURL, cfg.OpenRouterKey())
	}
	if cfg.IsHuggingFaceConfigured() {
		clients[types.ProviderHuggingFace] = huggingface.NewClient(cfg.HuggingFaceBaseURL, cfg.HuggingFaceKey())
	}
	if cfg.IsLocalConfigured() {
		if lc, err := local.NewClient(cfg.OllamaHost()); err == nil {
			clients[types.ProviderLocal] = lc
		} else {
			log.WithError(err).Warn("Skipping local provider")
		}
	}

	return &Analyzer{clients: clients, log: log}
}

// NewWithClients builds an Analyzer over an explicit provider-to-client
// mapping
func NewWithClients(clients map[types.Provider]client.VisionClient, log *logrus.Logger) *Analyzer {
	if log == nil {
		log = logrus.New()
	}
	return &Analyzer{clients: clients, log: log}
}

// Analyze routes the request to the provider named by the model's tag and
// returns a tagged success or failure result. An unknown provider tag
// short-circuits without any network call.
func (a *Analyzer) Analyze(ctx context.Context, req types.AnalysisRequest) types.AnalysisResult {
	switch req.Model.Provider {
	case types.ProviderOpenRouter, types.ProviderHuggingFace, types.ProviderLocal:
	default:
		a.log.WithField("model", req.Model.ID).Error("Unknown model provider")
		return types.Failure("unknown model provider", req.Model.ID, req.Model.Provider)
	}

	c, ok := a.clients[req.Model.Provider]
	if !ok {
		return types.Failure("provider not configured: "+string(req.Model.Provider), req.Model.ID, req.Model.Provider)
	}

	a.log.WithFields(logrus.Fields{
		"model":    req.Model.ID,
		"provider": req.Model.Provider,
	}).Info("Calling vision model")

	text, err := c.Analyze(ctx, req.Model.ID, SkinAnalysisPrompt, req.Image)
	if err != nil {
		a.log.WithError(err).WithFields(logrus.Fields{
			"model":    req.Model.ID,
			"provider": req.Model.Provider,
		}).Error("Analysis call failed")
		return types.Failure(err.Error(), req.Model.ID, req.Model.Provider)
	}

	return types.Success(text, req.Model.ID, req.Model.Provider)
}
