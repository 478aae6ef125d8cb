// Package backend описывает вычислительные возможности для преобразований
// изображений.
//
// Capabilities создаётся один раз и явно передаётся каждому
// преобразованию, которому он нужен.
package backend

import (
	"image"
	"image/draw"
	"strings"

	"github.com/nfnt/resize"

	"github.com/ilkoid/poncho-dataset/pkg/utils"
)

// ArrayOps — операции над пиксельными буферами.
type ArrayOps struct {
	Name string

	// ToHost возвращает изображение в памяти хоста. На CPU приводит
	// к *image.RGBA.
	ToHost func(img image.Image) image.Image
}

// ImageOps — операции обработки изображений.
type ImageOps struct {
	Name string

	// Resize масштабирует img ровно до width × height.
	Resize func(img image.Image, width, height uint) image.Image
}

// Capabilities — набор операций над массивами и изображениями.
type Capabilities struct {
	Array ArrayOps
	Image ImageOps
}

// Interpolation возвращает функцию интерполяции по имени из конфига.
// Неизвестное имя — Lanczos3.
func Interpolation(name string) resize.InterpolationFunction {
	switch strings.ToLower(name) {
	case "nearest", "nearestneighbor":
		return resize.NearestNeighbor
	case "bilinear":
		return resize.Bilinear
	case "bicubic":
		return resize.Bicubic
	case "mitchell", "mitchellnetravali":
		return resize.MitchellNetravali
	case "lanczos2":
		return resize.Lanczos2
	default:
		return resize.Lanczos3
	}
}

// CPU возвращает возможности на базе nfnt/resize.
func CPU(interp resize.InterpolationFunction) Capabilities {
	return Capabilities{
		Array: ArrayOps{
			Name:   "cpu",
			ToHost: toRGBA,
		},
		Image: ImageOps{
			Name: "cpu",
			Resize: func(img image.Image, width, height uint) image.Image {
				return resize.Resize(width, height, img, interp)
			},
		},
	}
}

// Select возвращает возможности запрошенного устройства. Реализация
// есть только для CPU: запрос GPU пишет предупреждение и откатывается на CPU.
func Select(useGPU bool, interpolation string) Capabilities {
	if useGPU {
		utils.Warn("GPU backend not available, using CPU")
	}
	return CPU(Interpolation(interpolation))
}

func toRGBA(img image.Image) image.Image {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
