package transform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilkoid/poncho-dataset/pkg/backend"
	"github.com/ilkoid/poncho-dataset/pkg/utils"
)

// Опции Resize.
const (
	OptWidth         = "width"
	OptHeight        = "height"
	OptQuality       = "quality"
	OptInterpolation = "interpolation"
)

// DefaultSize — сторона изображения по умолчанию.
const DefaultSize = 224

// Resize масштабирует изображение до width × height и сохраняет его
// в директорию назначения в исходном формате.
type Resize struct {
	Caps backend.Capabilities
}

var _ FileTransform = (*Resize)(nil)

// NewResize создает преобразование с переданными вычислительными возможностями.
func NewResize(caps backend.Capabilities) *Resize {
	return &Resize{Caps: caps}
}

// Apply читает src, масштабирует и пишет dstDir/<basename или new_filename>.
func (r *Resize) Apply(ctx context.Context, src, dstDir string, opts Options) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	width := opts.Int(OptWidth, DefaultSize)
	height := opts.Int(OptHeight, DefaultSize)
	if width <= 0 || height <= 0 {
		return fmt.Errorf("resize %s: invalid size %dx%d", src, width, height)
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read %s: %w", src, err)
	}

	img, decoded, err := utils.DecodeImage(data)
	if err != nil {
		return fmt.Errorf("resize %s: %w", src, err)
	}

	caps := r.Caps
	if name := opts.String(OptInterpolation, ""); name != "" {
		caps = backend.CPU(backend.Interpolation(name))
	}

	resized := caps.Array.ToHost(caps.Image.Resize(img, uint(width), uint(height)))

	format := utils.ImageFormat(src)
	if format == "" {
		format = decoded
	}

	out, err := utils.EncodeImage(resized, format, opts.Int(OptQuality, utils.DefaultJPEGQuality))
	if err != nil {
		return fmt.Errorf("resize %s: %w", src, err)
	}

	dst := filepath.Join(dstDir, targetName(src, opts))
	if err := os.WriteFile(dst, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	return nil
}
