// Package utils предоставляет утилиты для кодирования и декодирования изображений.
package utils

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"strings"
)

// DefaultJPEGQuality — качество JPEG, если не задано явно.
const DefaultJPEGQuality = 90

// ImageFormat определяет формат изображения по расширению файла.
//
// Возвращает "jpeg", "png", "gif" или пустую строку для неизвестных расширений.
func ImageFormat(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".png":
		return "png"
	case ".gif":
		return "gif"
	}
	return ""
}

// IsImageFile проверяет, является ли файл изображением по расширению.
func IsImageFile(filename string) bool {
	return ImageFormat(filename) != ""
}

// DecodeImage декодирует байты изображения (JPEG, PNG, GIF).
//
// Возвращает изображение и имя формата, которое сообщил декодер.
func DecodeImage(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return img, format, nil
}

// EncodeImage кодирует изображение в указанный формат.
//
// Параметры:
//   - img: изображение
//   - format: "jpeg", "png" или "gif"
//   - quality: качество JPEG (1-100), 0 — DefaultJPEGQuality. Для PNG/GIF игнорируется.
func EncodeImage(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case "jpeg", "jpg":
		if quality <= 0 || quality > 100 {
			quality = DefaultJPEGQuality
		}
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("encode to jpeg: %w", err)
		}
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode to png: %w", err)
		}
	case "gif":
		if err := gif.Encode(&buf, img, nil); err != nil {
			return nil, fmt.Errorf("encode to gif: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported image format: %q", format)
	}

	return buf.Bytes(), nil
}
