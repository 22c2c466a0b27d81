// Package skinanalyzer provides AI-powered skin photo analysis.
//
// It prepares an uploaded skin photo (validation, decoding, color-mode
// normalization, bounded downsampling, base64 JPEG encoding) and sends it
// to a configured multimodal vision model, returning the model's free-text
// assessment together with the provider that produced it.
//
// Basic usage:
//
//	package main
//
//	import (
//		"context"
//		"fmt"
//		"log"
//
//		skinanalyzer "github.com/jildai/skin-analyzer"
//	)
//
//	func main() {
//		app := skinanalyzer.New()
//
//		models := app.Models()
//		if len(models) == 0 {
//			log.Fatal("no provider configured")
//		}
//
//		result, info, err := app.AnalyzeFile(context.Background(), "photo.jpg", models[0])
//		if err != nil {
//			log.Fatal(err)
//		}
//		fmt.Printf("Image: %dx%d\n", info.Width, info.Height)
//		if result.OK() {
//			fmt.Println(result.Analysis)
//		} else {
//			fmt.Println("analysis failed:", result.Err)
//		}
//	}
//
// The package consists of four main components:
//
// 1. Processing (pkg/processing): upload validation and image normalization
// 2. Provider clients (pkg/openrouter, pkg/huggingface, pkg/local): one
// strategy per inference backend
// 3. Analysis (pkg/analysis): provider dispatch, prompt, report rendering
// 4. Transport (internal/transport): the HTTP surface used by the browser
// front end
//
// Credentials are resolved from a managed secrets file first and process
// environment variables second; a missing credential simply removes that
// provider's models from the catalog.
package skinanalyzer

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/jildai/skin-analyzer/internal/config"
	"github.com/jildai/skin-analyzer/internal/logger"
	"github.com/jildai/skin-analyzer/pkg/analysis"
	"github.com/jildai/skin-analyzer/pkg/processing"
	"github.com/jildai/skin-analyzer/pkg/types"
)

// Version of the skin analyzer library
const Version = "1.0.0"

// SkinAnalyzer provides a high-level interface over image preparation and
// provider dispatch. Construct one per process; it holds no per-request
// state and is safe for concurrent use.
type SkinAnalyzer struct {
	cfg      *config.Config
	proc     *processing.Processor
	analyzer *analysis.Analyzer
	log      *logrus.Logger
}

// New creates a SkinAnalyzer configured from the secrets store and the
// process environment
func New() *SkinAnalyzer {
	cfg := config.Load()
	log := logger.New()

	return &SkinAnalyzer{
		cfg: cfg,
		proc: processing.NewWithConfig(processing.Config{
			MaxFileSizeMB:    cfg.MaxFileSizeMB,
			MaxWidth:         cfg.MaxImageWidth,
			MaxHeight:        cfg.MaxImageHeight,
			Quality:          cfg.EncodeQuality,
			SupportedFormats: cfg.SupportedFormats,
		}),
		analyzer: analysis.New(cfg, log),
		log:      log,
	}
}

// Models returns the catalog of currently usable models. It is empty when
// no provider is configured.
func (s *SkinAnalyzer) Models() []types.ModelRef {
	return s.cfg.AvailableModels()
}

// PrepareImage runs the preparation pipeline on an uploaded file
func (s *SkinAnalyzer) PrepareImage(r io.Reader, filename string, size int64) (*types.NormalizedImage, string, error) {
	return s.proc.Prepare(r, filename, size)
}

// Analyze sends a prepared image to the selected model
func (s *SkinAnalyzer) Analyze(ctx context.Context, imgB64 string, model types.ModelRef) types.AnalysisResult {
	return s.analyzer.Analyze(ctx, types.AnalysisRequest{Image: imgB64, Model: model})
}

// AnalyzeFile is a convenience that prepares a local file and analyzes it
// in one call. The returned ImageInfo describes the normalized bitmap.
func (s *SkinAnalyzer) AnalyzeFile(ctx context.Context, path string, model types.ModelRef) (types.AnalysisResult, types.ImageInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.AnalysisResult{}, types.ImageInfo{}, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return types.AnalysisResult{}, types.ImageInfo{}, err
	}

	normalized, imgB64, err := s.proc.Prepare(f, path, stat.Size())
	if err != nil {
		return types.AnalysisResult{}, types.ImageInfo{}, err
	}

	return s.Analyze(ctx, imgB64, model), normalized.Info(), nil
}

// RenderReport produces the downloadable markdown report for a result
func (s *SkinAnalyzer) RenderReport(result types.AnalysisResult) string {
	return analysis.RenderReport(result)
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
