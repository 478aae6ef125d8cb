package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// ResetDirectory удаляет директорию (если есть), создаёт её заново
// и заполняет пустыми поддиректориями subs.
//
// Используется перед материализацией датасета: одна поддиректория на метку.
func ResetDirectory(dir string, subs []string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	for _, sub := range subs {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", sub, err)
		}
	}
	return nil
}

// EnsureDirectories создаёт все директории из списка (без удаления содержимого).
func EnsureDirectories(dirs []string) error {
	seen := make(map[string]struct{}, len(dirs))
	for _, dir := range dirs {
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}
