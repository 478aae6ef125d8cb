package utils

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageFormat(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"a.png", "png"},
		{"b.JPG", "jpeg"},
		{"c.jpeg", "jpeg"},
		{"d.gif", "gif"},
		{"slide.tif", ""},
		{"noext", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ImageFormat(tt.name))
			assert.Equal(t, tt.expected != "", IsImageFile(tt.name))
		})
	}
}

func TestEncodeDecodeImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 6))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})

	for _, format := range []string{"png", "jpeg", "gif"} {
		t.Run(format, func(t *testing.T) {
			data, err := EncodeImage(img, format, 0)
			require.NoError(t, err)

			decoded, got, err := DecodeImage(data)
			require.NoError(t, err)
			assert.Equal(t, format, got)
			assert.Equal(t, 10, decoded.Bounds().Dx())
			assert.Equal(t, 6, decoded.Bounds().Dy())
		})
	}

	_, err := EncodeImage(img, "tiff", 0)
	assert.Error(t, err)
}
