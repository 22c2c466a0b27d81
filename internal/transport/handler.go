package transport

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/jildai/skin-analyzer/internal/config"
	"github.com/jildai/skin-analyzer/pkg/analysis"
	"github.com/jildai/skin-analyzer/pkg/processing"
	"github.com/jildai/skin-analyzer/pkg/types"
)

// Analyzer is the dispatch dependency the handler needs
type Analyzer interface {
	Analyze(ctx context.Context, req types.AnalysisRequest) types.AnalysisResult
}

// AnalyzeResponse is the body returned by the analyze endpoint
type AnalyzeResponse struct {
	types.AnalysisResult
	Image types.ImageInfo `json:"image"`
}

// ErrorResponse is the body returned for rejected requests
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewHandler wires the HTTP routes. Each request runs in its own isolated
// context; the only shared state is the read-only configuration.
func NewHandler(a Analyzer, proc *processing.Processor, cfg *config.Config, log *logrus.Logger) http.Handler {
	r := gin.Default()

	r.Use(requestSizeLimiter(cfg.MaxFileSizeBytes() + 1024*1024))

	r.GET("/health", healthCheck)
	r.GET("/api/models", listModels(cfg))
	r.POST("/api/analyze", analyzeImage(a, proc, cfg, log))

	return r
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// listModels reports the usable model catalog and provider presence flags.
// The flags carry only booleans, never the credentials themselves.
func listModels(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"models": cfg.AvailableModels(),
			"configured": gin.H{
				"openrouter":  cfg.IsOpenRouterConfigured(),
				"huggingface": cfg.IsHuggingFaceConfigured(),
				"local":       cfg.IsLocalConfigured(),
			},
		})
	}
}

func analyzeImage(a Analyzer, proc *processing.Processor, cfg *config.Config, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		models := cfg.AvailableModels()
		if len(models) == 0 {
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{
				Error: "no provider configured; set OPENROUTER_API_KEY or HUGGINGFACE_API_KEY",
			})
			return
		}

		fileHeader, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no image file provided"})
			return
		}

		model := models[0]
		if name := c.PostForm("model"); name != "" {
			m, ok := cfg.FindModel(name)
			if !ok {
				c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown model: " + name})
				return
			}
			model = m
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read upload"})
			return
		}
		defer file.Close()

		normalized, imgB64, err := proc.Prepare(file, fileHeader.Filename, fileHeader.Size)
		if err != nil {
			log.WithError(err).WithField("filename", fileHeader.Filename).Error("Image preparation failed")
			c.JSON(pipelineStatusCode(err), ErrorResponse{Error: err.Error()})
			return
		}

		log.WithFields(logrus.Fields{
			"filename": fileHeader.Filename,
			"width":    normalized.Width,
			"height":   normalized.Height,
			"model":    model.ID,
			"provider": model.Provider,
		}).Info("Processing analysis request")

		result := a.Analyze(ctx, types.AnalysisRequest{Image: imgB64, Model: model})

		if c.Query("format") == "markdown" {
			c.Header("Content-Disposition", `attachment; filename="skincare_analysis.md"`)
			c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(analysis.RenderReport(result)))
			return
		}

		// Provider failures are contained in the result body, not mapped
		// onto HTTP error codes
		c.JSON(http.StatusOK, AnalyzeResponse{
			AnalysisResult: result,
			Image:          normalized.Info(),
		})
	}
}

// pipelineStatusCode maps the preparation error taxonomy onto HTTP status
// codes
func pipelineStatusCode(err error) int {
	switch kind, _ := types.KindOf(err); kind {
	case types.ErrorKindValidation:
		return http.StatusBadRequest
	case types.ErrorKindDecode:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
