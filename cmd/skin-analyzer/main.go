package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jildai/skin-analyzer/internal/config"
	"github.com/jildai/skin-analyzer/internal/utils"
	"github.com/jildai/skin-analyzer/pkg/analysis"
	"github.com/jildai/skin-analyzer/pkg/processing"
	"github.com/jildai/skin-analyzer/pkg/types"
)

func main() {
	var in, modelName, out string
	var timeout time.Duration
	var listModels bool

	flag.StringVar(&in, "in", "", "input skin photo (jpg/jpeg/png/webp)")
	flag.StringVar(&modelName, "model", "", "model display name (default: first available)")
	flag.StringVar(&out, "out", "", "report output path (default: <input>_analysis.md)")
	flag.DurationVar(&timeout, "timeout", 3*time.Minute, "analysis timeout")
	flag.BoolVar(&listModels, "models", false, "list available models and exit")

	flag.Parse()

	cfg := config.Load()

	models := cfg.AvailableModels()
	if len(models) == 0 {
		log.Fatalf("no provider configured: set %s or %s (or point %s at a local server)",
			config.EnvOpenRouterKey, config.EnvHuggingFaceKey, config.EnvOllamaHost)
	}

	if listModels {
		for _, m := range models {
			fmt.Printf("%s\t%s\t(%s)\n", m.DisplayName, m.ID, m.Provider)
		}
		return
	}

	if in == "" {
		log.Fatalf("usage: %s -in photo.jpg [-model name] [-out report.md]", filepath.Base(os.Args[0]))
	}

	model := models[0]
	if modelName != "" {
		m, ok := cfg.FindModel(modelName)
		if !ok {
			log.Fatalf("unknown model %q (use -models to list)", modelName)
		}
		model = m
	}

	proc := processing.NewWithConfig(processing.Config{
		MaxFileSizeMB:    cfg.MaxFileSizeMB,
		MaxWidth:         cfg.MaxImageWidth,
		MaxHeight:        cfg.MaxImageHeight,
		Quality:          cfg.EncodeQuality,
		SupportedFormats: cfg.SupportedFormats,
	})

	f, err := os.Open(in)
	if err != nil {
		log.Fatalf("failed to open input: %v", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		log.Fatalf("failed to stat input: %v", err)
	}

	normalized, imgB64, err := proc.Prepare(f, in, stat.Size())
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("prepared %s: %dx%d %s (%s)", filepath.Base(in),
		normalized.Width, normalized.Height, normalized.Mode, utils.FormatFileSizeMB(stat.Size()))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	analyzer := analysis.New(cfg, nil)
	result := analyzer.Analyze(ctx, types.AnalysisRequest{Image: imgB64, Model: model})
	if !result.OK() {
		log.Fatalf("analysis failed (%s, %s): %s", result.Provider, result.Model, result.Err)
	}

	if out == "" {
		base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
		out = utils.SanitizeFilename(base) + "_analysis.md"
	}

	if err := os.WriteFile(out, []byte(analysis.RenderReport(result)), 0o644); err != nil {
		log.Fatalf("failed to write report: %v", err)
	}
	log.Printf("wrote %s (model=%s provider=%s)", out, result.Model, result.Provider)
}
