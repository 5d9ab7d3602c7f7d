// Package images turns the PNG bytes a render backend captures into the
// configured output format, optionally scaled down to a maximum width.
package images

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	"github.com/tkturners/thumbgen/internal/fileutil"
)

// Supported output formats.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
)

// Options controls encoding. MaxWidth of 0 disables scaling; Quality only
// applies to JPEG.
type Options struct {
	Format   string
	Quality  int
	MaxWidth int
}

// Info describes an encoded image.
type Info struct {
	Width  int
	Height int
	Size   int
}

// Encode converts captured PNG data according to opts.
func Encode(pngData []byte, opts Options) ([]byte, Info, error) {
	cfg, err := png.DecodeConfig(bytes.NewReader(pngData))
	if err != nil {
		return nil, Info{}, fmt.Errorf("decode capture header: %w", err)
	}

	needsScale := opts.MaxWidth > 0 && cfg.Width > opts.MaxWidth
	if opts.Format == FormatPNG && !needsScale {
		return pngData, Info{Width: cfg.Width, Height: cfg.Height, Size: len(pngData)}, nil
	}

	img, err := png.Decode(bytes.NewReader(pngData))
	if err != nil {
		return nil, Info{}, fmt.Errorf("decode capture: %w", err)
	}
	if needsScale {
		img = scaleToWidth(img, opts.MaxWidth)
	}

	var buf bytes.Buffer
	switch opts.Format {
	case FormatPNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, Info{}, fmt.Errorf("encode png: %w", err)
		}
	case FormatJPEG:
		if err := jpeg.Encode(&buf, flatten(img), &jpeg.Options{Quality: clampQuality(opts.Quality)}); err != nil {
			return nil, Info{}, fmt.Errorf("encode jpeg: %w", err)
		}
	default:
		return nil, Info{}, fmt.Errorf("unsupported image format %q", opts.Format)
	}

	b := img.Bounds()
	return buf.Bytes(), Info{Width: b.Dx(), Height: b.Dy(), Size: buf.Len()}, nil
}

// Write encodes pngData and writes it to path, creating the parent directory.
func Write(path string, pngData []byte, opts Options) (Info, error) {
	data, info, err := Encode(pngData, opts)
	if err != nil {
		return Info{}, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Info{}, fmt.Errorf("create image directory: %w", err)
	}
	if err := fileutil.WriteAtomic(path, data); err != nil {
		return Info{}, fmt.Errorf("write image: %w", err)
	}
	return info, nil
}

func scaleToWidth(img image.Image, width int) image.Image {
	bounds := img.Bounds()
	height := bounds.Dy() * width / bounds.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// flatten composites img over white; JPEG has no alpha channel.
func flatten(img image.Image) image.Image {
	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Over)
	return dst
}

func clampQuality(q int) int {
	switch {
	case q < 1:
		return jpeg.DefaultQuality
	case q > 100:
		return 100
	default:
		return q
	}
}
