package imaging

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"math"

	// Registered decoders.
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ErrDecode indicates the input is not an image this package can read.
var ErrDecode = errors.New("decode image")

const (
	DefaultMaxWidth  = 400
	DefaultQuality   = 80
	DefaultMaxPixels = 50_000_000
)

// Transcoder downsizes images into compact JPEG avatars.
type Transcoder struct {
	MaxWidth  int
	Quality   int
	MaxPixels int
}

// NewTranscoder returns a Transcoder with the avatar defaults.
func NewTranscoder() *Transcoder {
	return &Transcoder{MaxWidth: DefaultMaxWidth, Quality: DefaultQuality, MaxPixels: DefaultMaxPixels}
}

// Transcode decodes data, scales it uniformly so the width fits MaxWidth, and
// re-encodes it as JPEG. Narrower images keep their size.
func (t *Transcoder) Transcode(ctx context.Context, data []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrDecode)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > t.MaxPixels {
		return nil, fmt.Errorf("%w: unsupported dimensions %dx%d", ErrDecode, cfg.Width, cfg.Height)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	width, height := TargetSize(src.Bounds().Dx(), src.Bounds().Dy(), t.MaxWidth)
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: t.Quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// TargetSize returns the output dimensions for a source of width x height.
func TargetSize(width, height, maxWidth int) (int, int) {
	if maxWidth <= 0 || width <= maxWidth {
		return width, height
	}
	scale := float64(maxWidth) / float64(width)
	scaled := int(math.Round(float64(height) * scale))
	if scaled < 1 {
		scaled = 1
	}
	return maxWidth, scaled
}

// DataURL embeds a JPEG as a data URL.
func DataURL(jpegData []byte) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpegData)
}
