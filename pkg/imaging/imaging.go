// Package imaging normalizes uploaded raster images into transfer-ready JPEG
// payloads. Images are proportionally downsized so the longer edge does not
// exceed MaxDimension and are always re-encoded at a fixed quality.
package imaging

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"log/slog"
	"math"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/JaimeStill/nanohunter/pkg/formatting"
)

const (
	// MaxDimension is the upper bound for the longer output edge.
	MaxDimension = 1536
	// Quality is the JPEG quality factor (0.85 of the encoder scale).
	Quality = 85
	// MIMEType is the fixed output type regardless of input format.
	MIMEType = "image/jpeg"
	// MaxSourceSide bounds either declared side of an input image.
	MaxSourceSide = 1 << 14
	// MaxSourcePixels bounds the declared pixel count of an input image,
	// which decoders allocate in full before any scaling happens.
	MaxSourcePixels = 64 << 20
)

// Payload is a normalized image ready to be attached to a vision request.
// Data holds the base64 (standard encoding) JPEG bytes without any data URI prefix.
type Payload struct {
	Data         string `json:"data"`
	MIMEType     string `json:"mime_type"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	SourceFormat string `json:"source_format"`

	raw []byte
}

// Bytes returns the encoded JPEG stream.
func (p *Payload) Bytes() []byte {
	if p.raw == nil && p.Data != "" {
		if raw, err := base64.StdEncoding.DecodeString(p.Data); err == nil {
			p.raw = raw
		}
	}
	return p.raw
}

// DataURI returns the payload as a data:image/jpeg;base64 URI.
func (p *Payload) DataURI() string {
	return "data:" + p.MIMEType + ";base64," + p.Data
}

// Normalizer decodes, downsizes, and re-encodes images.
// It holds no state between calls and is safe for concurrent use.
type Normalizer struct {
	logger *slog.Logger
}

// New creates a Normalizer that logs through the given logger.
func New(logger *slog.Logger) *Normalizer {
	return &Normalizer{
		logger: logger.With("system", "imaging"),
	}
}

// Fit computes output dimensions for a w×h source. The longer edge is capped
// at MaxDimension and the shorter edge is scaled proportionally and rounded.
// Images already within the bound are returned unchanged; nothing is upscaled.
func Fit(w, h int) (int, int) {
	if w > h {
		if w > MaxDimension {
			return MaxDimension, scaleEdge(h, w)
		}
		return w, h
	}
	if h > MaxDimension {
		return scaleEdge(w, h), MaxDimension
	}
	return w, h
}

func scaleEdge(short, long int) int {
	v := int(math.Round(float64(short) * MaxDimension / float64(long)))
	return max(v, 1)
}

// Normalize decodes raw, scales it per Fit with a single bilinear draw,
// and re-encodes it as JPEG at Quality. Returns ErrDecode for unreadable
// input or a header declaring more than MaxSourceSide or MaxSourcePixels,
// and ErrEnvironment when the scratch surface or encoder fails.
func (n *Normalizer) Normalize(ctx context.Context, raw []byte) (*Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := checkSource(raw); err != nil {
		return nil, err
	}

	src, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	sb := src.Bounds()
	if sb.Empty() {
		return nil, fmt.Errorf("%w: empty image bounds", ErrDecode)
	}

	w, h := Fit(sb.Dx(), sb.Dy())

	surface, release, err := acquireSurface(w, h)
	if err != nil {
		return nil, err
	}
	defer release()

	render(surface, src)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, surface, &jpeg.Options{Quality: Quality}); err != nil {
		return nil, fmt.Errorf("%w: encode jpeg: %w", ErrEnvironment, err)
	}

	encoded := buf.Bytes()

	n.logger.DebugContext(
		ctx, "image normalized",
		"source_format", format,
		"source_width", sb.Dx(),
		"source_height", sb.Dy(),
		"width", w,
		"height", h,
		"input_size", formatting.FormatBytes(int64(len(raw)), 1),
		"output_size", formatting.FormatBytes(int64(len(encoded)), 1),
	)

	return &Payload{
		Data:         base64.StdEncoding.EncodeToString(encoded),
		MIMEType:     MIMEType,
		Width:        w,
		Height:       h,
		SourceFormat: format,
		raw:          encoded,
	}, nil
}

// checkSource reads only the image header and rejects declared dimensions
// whose pixel buffer would exceed the source budget.
func checkSource(raw []byte) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}

	w, h := cfg.Width, cfg.Height
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: empty image bounds", ErrDecode)
	}
	if w > MaxSourceSide || h > MaxSourceSide || int64(w)*int64(h) > MaxSourcePixels {
		return fmt.Errorf("%w: source %dx%d exceeds %d px per side or %d px total",
			ErrDecode, w, h, MaxSourceSide, MaxSourcePixels)
	}
	return nil
}

// render paints src onto an opaque black surface, matching a canvas export
// where transparent pixels flatten to black.
func render(dst *image.RGBA, src image.Image) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	sb := src.Bounds()
	if sb.Dx() == dst.Bounds().Dx() && sb.Dy() == dst.Bounds().Dy() {
		draw.Draw(dst, dst.Bounds(), src, sb.Min, draw.Over)
		return
	}

	draw.BiLinear.Scale(dst, dst.Bounds(), src, sb, draw.Over, nil)
}
