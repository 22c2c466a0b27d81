package processing

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/jildai/skin-analyzer/internal/utils"
	"github.com/jildai/skin-analyzer/pkg/types"
)

// Processor prepares uploaded skin photos for submission to a vision model:
// validate, decode, convert to an opaque 3-channel mode, downsample to the
// bounding box, and serialize to a base64 JPEG payload.
type Processor struct {
	config Config
}

// Config holds configuration for the image processor
type Config struct {
	MaxFileSizeMB    int64
	MaxWidth         int
	MaxHeight        int
	Quality          int
	SupportedFormats []string
}

// New creates a new Processor with default configuration
func New() *Processor {
	return &Processor{
		config: Config{
			MaxFileSizeMB:    10,
			MaxWidth:         1024,
			MaxHeight:        1024,
			Quality:          95,
			SupportedFormats: []string{"jpg", "jpeg", "png", "webp"},
		},
	}
}

// NewWithConfig creates a new Processor with custom configuration
func NewWithConfig(config Config) *Processor {
	return &Processor{config: config}
}

// Validate checks an upload's declared size and filename extension before
// any bytes are decoded. The first failing check wins.
func (p *Processor) Validate(filename string, size int64) error {
	if filename == "" {
		return types.NewValidationError("no image file provided")
	}

	if size > p.config.MaxFileSizeMB*1024*1024 {
		return types.NewValidationError(fmt.Sprintf(
			"file size (%s) exceeds maximum allowed size (%dMB)",
			utils.FormatFileSizeMB(size), p.config.MaxFileSizeMB))
	}

	ext := utils.GetFileExtension(filename)
	if !p.isFormatSupported(ext) {
		return types.NewValidationError(fmt.Sprintf(
			"file format %q not supported; supported formats: %s",
			ext, strings.Join(p.config.SupportedFormats, ", ")))
	}

	return nil
}

// Prepare runs the full preparation pipeline on an uploaded file and
// returns the normalized bitmap together with its base64 JPEG payload.
func (p *Processor) Prepare(r io.Reader, filename string, size int64) (*types.NormalizedImage, string, error) {
	if r == nil {
		return nil, "", types.NewValidationError("no image file provided")
	}
	if err := p.Validate(filename, size); err != nil {
		return nil, "", err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", types.NewDecodeError("failed to read image data", err)
	}

	img, format, err := decodeImage(data)
	if err != nil {
		return nil, "", err
	}

	rgb := toRGB(img)

	bounds := rgb.Bounds()
	if bounds.Dx() > p.config.MaxWidth || bounds.Dy() > p.config.MaxHeight {
		rgb = imaging.Fit(rgb, p.config.MaxWidth, p.config.MaxHeight, imaging.Lanczos)
	}

	encoded, err := p.encodeBase64(rgb)
	if err != nil {
		return nil, "", err
	}

	normalized := &types.NormalizedImage{
		Image:  rgb,
		Width:  rgb.Bounds().Dx(),
		Height: rgb.Bounds().Dy(),
		Format: format,
		Mode:   "RGB",
	}
	return normalized, encoded, nil
}

// Info returns metadata about a normalized image. It is a pure read of
// already-computed attributes.
func (p *Processor) Info(n *types.NormalizedImage) types.ImageInfo {
	return n.Info()
}

// decodeImage decodes image bytes using the registered decoders, falling
// back to an explicit WebP decode
func decodeImage(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err == nil {
		return img, format, nil
	}

	if img, werr := webp.Decode(bytes.NewReader(data)); werr == nil {
		return img, "webp", nil
	}

	return nil, "", types.NewDecodeError("failed to decode image", err)
}

// toRGB converts any decoded image into an opaque 3-channel bitmap. Alpha
// is dropped; palette and grayscale sources expand losslessly. The
// conversion is total for any image the decoder accepted.
func toRGB(img image.Image) *image.NRGBA {
	out := imaging.Clone(img)
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = 0xff
	}
	return out
}

// encodeBase64 serializes the bitmap as JPEG at the configured quality and
// base64-encodes the result
func (p *Processor) encodeBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.config.Quality}); err != nil {
		return "", types.NewEncodeError("failed to encode image", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func (p *Processor) isFormatSupported(ext string) bool {
	for _, supported := range p.config.SupportedFormats {
		if strings.EqualFold(ext, supported) {
			return true
		}
	}
	return false
}
