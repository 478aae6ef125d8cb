package backend

import (
	"image"
	"image/color"
	"testing"

	"github.com/nfnt/resize"
	"github.com/stretchr/testify/assert"
)

func TestCPU_Resize(t *testing.T) {
	caps := CPU(resize.Bilinear)
	img := image.NewGray(image.Rect(0, 0, 40, 20))

	out := caps.Image.Resize(img, 10, 8)
	assert.Equal(t, 10, out.Bounds().Dx())
	assert.Equal(t, 8, out.Bounds().Dy())
	assert.Equal(t, "cpu", caps.Image.Name)
}

func TestCPU_ToHost(t *testing.T) {
	caps := CPU(resize.Lanczos3)
	gray := image.NewGray(image.Rect(2, 2, 5, 6))
	gray.SetGray(2, 2, color.Gray{Y: 200})

	host := caps.Array.ToHost(gray)
	rgba, ok := host.(*image.RGBA)
	assert.True(t, ok)
	assert.Equal(t, image.Rect(0, 0, 3, 4), rgba.Bounds())
	r, _, _, _ := rgba.At(0, 0).RGBA()
	assert.Equal(t, uint32(200)<<8|200, r)
}

func TestSelect_FallsBackToCPU(t *testing.T) {
	caps := Select(true, "bicubic")
	assert.Equal(t, "cpu", caps.Array.Name)
	assert.NotNil(t, caps.Image.Resize)
}

func TestInterpolation(t *testing.T) {
	assert.Equal(t, resize.NearestNeighbor, Interpolation("nearest"))
	assert.Equal(t, resize.Bilinear, Interpolation("Bilinear"))
	assert.Equal(t, resize.Lanczos3, Interpolation("whatever"))
}
