package analysis

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/jildai/skin-analyzer/pkg/client"
	"github.com/jildai/skin-analyzer/pkg/types"
)

// fakeClient records calls and returns a canned reply or error
type fakeClient struct {
	reply string
	err   error
	calls int
}

func (f *fakeClient) Analyze(ctx context.Context, modelID, prompt, imgB64 string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestRoutingByProviderTag(t *testing.T) {
	openrouter := &fakeClient{reply: "from A"}
	huggingface := &fakeClient{reply: "from B"}

	a := NewWithClients(map[types.Provider]client.VisionClient{
		types.ProviderOpenRouter:  openrouter,
		types.ProviderHuggingFace: huggingface,
	}, quietLogger())

	res := a.Analyze(context.Background(), types.AnalysisRequest{
		Image: "aW1n",
		Model: types.ModelRef{DisplayName: "🔒 Qwen2.5", ID: "qwen/x", Provider: types.ProviderOpenRouter},
	})

	if !res.OK() || res.Analysis != "from A" {
		t.Fatalf("result = %+v, want success from provider A", res)
	}
	if openrouter.calls != 1 {
		t.Errorf("provider A called %d times, want 1", openrouter.calls)
	}
	if huggingface.calls != 0 {
		t.Errorf("provider B called %d times, want 0", huggingface.calls)
	}

	res = a.Analyze(context.Background(), types.AnalysisRequest{
		Image: "aW1n",
		Model: types.ModelRef{DisplayName: "🤗 Llava", ID: "llava-hf/x", Provider: types.ProviderHuggingFace},
	})

	if !res.OK() || res.Analysis != "from B" {
		t.Fatalf("result = %+v, want success from provider B", res)
	}
	if openrouter.calls != 1 || huggingface.calls != 1 {
		t.Errorf("call counts A=%d B=%d after one call each", openrouter.calls, huggingface.calls)
	}
}

func TestRoutingIgnoresDisplayName(t *testing.T) {
	// A display name carrying the "wrong" marker must not affect routing
	openrouter := &fakeClient{reply: "ok"}
	huggingface := &fakeClient{reply: "ok"}

	a := NewWithClients(map[types.Provider]client.VisionClient{
		types.ProviderOpenRouter:  openrouter,
		types.ProviderHuggingFace: huggingface,
	}, quietLogger())

	a.Analyze(context.Background(), types.AnalysisRequest{
		Model: types.ModelRef{DisplayName: "🤗 mislabeled", ID: "m", Provider: types.ProviderOpenRouter},
	})

	if openrouter.calls != 1 || huggingface.calls != 0 {
		t.Errorf("routing followed the display name: A=%d B=%d", openrouter.calls, huggingface.calls)
	}
}

func TestUnknownProviderShortCircuit(t *testing.T) {
	fake := &fakeClient{reply: "should not be reached"}

	a := NewWithClients(map[types.Provider]client.VisionClient{
		types.ProviderOpenRouter: fake,
	}, quietLogger())

	res := a.Analyze(context.Background(), types.AnalysisRequest{
		Image: "aW1n",
		Model: types.ModelRef{DisplayName: "mystery", ID: "some/model", Provider: types.Provider("mystery")},
	})

	if res.OK() {
		t.Fatal("unknown provider produced a success result")
	}
	if res.Err != "unknown model provider" {
		t.Errorf("error = %q, want unknown model provider", res.Err)
	}
	if res.Model != "some/model" {
		t.Errorf("result model = %q, want the request's model id", res.Model)
	}
	if fake.calls != 0 {
		t.Errorf("network client called %d times, want 0", fake.calls)
	}
}

func TestUnconfiguredProvider(t *testing.T) {
	a := NewWithClients(map[types.Provider]client.VisionClient{}, quietLogger())

	res := a.Analyze(context.Background(), types.AnalysisRequest{
		Model: types.ModelRef{ID: "m", Provider: types.ProviderHuggingFace},
	})

	if res.OK() {
		t.Fatal("unconfigured provider produced a success result")
	}
	if !strings.Contains(res.Err, "not configured") {
		t.Errorf("error = %q, want a not-configured message", res.Err)
	}
}

func TestFailureContainment(t *testing.T) {
	fake := &fakeClient{err: errors.New("connection timed out")}

	a := NewWithClients(map[types.Provider]client.VisionClient{
		types.ProviderHuggingFace: fake,
	}, quietLogger())

	res := a.Analyze(context.Background(), types.AnalysisRequest{
		Image: "aW1n",
		Model: types.ModelRef{ID: "llava-hf/x", Provider: types.ProviderHuggingFace},
	})

	if res.OK() {
		t.Fatal("transport failure produced a success result")
	}
	if res.Err != "connection timed out" {
		t.Errorf("error = %q, want the client error string", res.Err)
	}
	if res.Model != "llava-hf/x" || res.Provider != types.ProviderHuggingFace {
		t.Errorf("result model/provider = %q/%q, want request's values", res.Model, res.Provider)
	}
}

func TestAnalyzePassesPromptAndImage(t *testing.T) {
	var gotModel, gotPrompt, gotImage string
	spy := clientFunc(func(ctx context.Context, modelID, prompt, imgB64 string) (string, error) {
		gotModel, gotPrompt, gotImage = modelID, prompt, imgB64
		return "done", nil
	})

	a := NewWithClients(map[types.Provider]client.VisionClient{
		types.ProviderOpenRouter: spy,
	}, quietLogger())

	a.Analyze(context.Background(), types.AnalysisRequest{
		Image: "cGF5bG9hZA==",
		Model: types.ModelRef{ID: "qwen/x", Provider: types.ProviderOpenRouter},
	})

	if gotModel != "qwen/x" {
		t.Errorf("model id = %q", gotModel)
	}
	if gotPrompt != SkinAnalysisPrompt {
		t.Error("client did not receive the skin analysis prompt")
	}
	if gotImage != "cGF5bG9hZA==" {
		t.Errorf("image payload = %q", gotImage)
	}
}

type clientFunc func(ctx context.Context, modelID, prompt, imgB64 string) (string, error)

func (f clientFunc) Analyze(ctx context.Context, modelID, prompt, imgB64 string) (string, error) {
	return f(ctx, modelID, prompt, imgB64)
}

func TestRenderReport(t *testing.T) {
	success := types.Success("## Findings\nLooks fine.", "qwen/x", types.ProviderOpenRouter)
	report := RenderReport(success)
	if !strings.Contains(report, "## Findings") {
		t.Error("report does not contain the analysis text verbatim")
	}
	if !strings.Contains(report, "Skin Analysis Report") {
		t.Error("report missing title")
	}

	failure := types.Failure("boom", "qwen/x", types.ProviderOpenRouter)
	report = RenderReport(failure)
	if !strings.Contains(report, "Analysis failed: boom") {
		t.Error("failure report missing error notice")
	}
}
