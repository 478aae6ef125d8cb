// Package transform определяет файловые преобразования, которые пул
// воркеров применяет к каждому файлу шарда.
//
// Преобразование получает путь к исходному файлу и директорию назначения.
// Всё остальное передаётся через Options.
package transform

import (
	"context"
	"strconv"
)

// FileTransform — одно преобразование "файл -> директория".
//
// Реализации должны быть потокобезопасны: один экземпляр используется
// всеми шардами одновременно.
type FileTransform interface {
	Apply(ctx context.Context, src, dstDir string, opts Options) error
}

// Func — адаптер, позволяющий использовать функцию как FileTransform.
type Func func(ctx context.Context, src, dstDir string, opts Options) error

// Apply вызывает f.
func (f Func) Apply(ctx context.Context, src, dstDir string, opts Options) error {
	return f(ctx, src, dstDir, opts)
}

// Options — дополнительные именованные аргументы преобразования.
//
// Значения приходят из YAML, JSON и флагов, поэтому геттеры терпимы к типам:
// число может быть int, int64, float64 или строкой.
type Options map[string]any

// String возвращает строковое значение или def.
func (o Options) String(key, def string) string {
	v, ok := o[key]
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok {
		return def
	}
	return s
}

// Bool возвращает булево значение или def.
func (o Options) Bool(key string, def bool) bool {
	v, ok := o[key]
	if !ok {
		return def
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		if parsed, err := strconv.ParseBool(b); err == nil {
			return parsed
		}
	}
	return def
}

// Int возвращает целое значение или def.
func (o Options) Int(key string, def int) int {
	v, ok := o[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case uint:
		return int(n)
	case float64:
		return int(n)
	case string:
		if parsed, err := strconv.Atoi(n); err == nil {
			return parsed
		}
	}
	return def
}

// With возвращает копию с добавленным ключом. Исходный map не меняется.
func (o Options) With(key string, value any) Options {
	out := make(Options, len(o)+1)
	for k, v := range o {
		out[k] = v
	}
	out[key] = value
	return out
}
