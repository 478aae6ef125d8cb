package transform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ilkoid/poncho-dataset/pkg/utils"
)

// Опции Copy.
const (
	OptNewFilename = "new_filename" // Имя файла в директории назначения
	OptSafeCopy    = "safe_copy"    // true: отсутствующие пути — предупреждение, а не ошибка
)

// Copy копирует файл в директорию назначения. Преобразование по умолчанию.
type Copy struct{}

var _ FileTransform = Copy{}

// Apply копирует src в dstDir/<basename или new_filename>.
func (Copy) Apply(ctx context.Context, src, dstDir string, opts Options) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	safe := opts.Bool(OptSafeCopy, true)
	if ok, err := checkPaths(src, dstDir); !ok {
		if safe {
			utils.Warn("skipping copy", "src", src, "dst", dstDir, "error", err)
			return nil
		}
		return err
	}

	dst := filepath.Join(dstDir, targetName(src, opts))
	return copyFile(src, dst)
}

// checkPaths проверяет что src — файл, а dstDir — существующая директория.
func checkPaths(src, dstDir string) (bool, error) {
	info, err := os.Stat(src)
	if err != nil {
		return false, fmt.Errorf("source %s: %w", src, err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("source %s is a directory", src)
	}
	info, err = os.Stat(dstDir)
	if err != nil {
		return false, fmt.Errorf("destination %s: %w", dstDir, err)
	}
	if !info.IsDir() {
		return false, fmt.Errorf("destination %s is not a directory", dstDir)
	}
	return true, nil
}

func targetName(src string, opts Options) string {
	if name := opts.String(OptNewFilename, ""); name != "" {
		return name
	}
	return filepath.Base(src)
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer func() {
		err = errors.Join(err, out.Close())
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %s -> %s: %w", src, dst, err)
	}
	return nil
}
