package transform

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/ilkoid/poncho-dataset/pkg/s3storage"
)

// Upload загружает файл в S3 вместо записи на диск.
//
// Ключ строится как Prefix/<dstDir относительно Base>/<basename>, так что
// раскладка по меткам сохраняется в бакете.
type Upload struct {
	Client s3storage.ClientInterface
	Prefix string
	Base   string
}

var _ FileTransform = (*Upload)(nil)

// Apply загружает src под ключом, вычисленным из dstDir.
func (u *Upload) Apply(ctx context.Context, src, dstDir string, opts Options) error {
	key := s3storage.Key(u.Prefix, u.relative(dstDir), targetName(src, opts))
	if err := u.Client.UploadFile(ctx, key, src); err != nil {
		return fmt.Errorf("upload %s: %w", src, err)
	}
	return nil
}

func (u *Upload) relative(dstDir string) string {
	if u.Base == "" {
		return dstDir
	}
	rel, err := filepath.Rel(u.Base, dstDir)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.Base(dstDir)
	}
	return rel
}

// Download скачивает объект S3 (src — ключ) в dstDir/<basename ключа>.
type Download struct {
	Client s3storage.ClientInterface
}

var _ FileTransform = (*Download)(nil)

// Apply скачивает объект src.
func (d *Download) Apply(ctx context.Context, src, dstDir string, opts Options) error {
	name := opts.String(OptNewFilename, path.Base(src))
	if err := d.Client.DownloadToFile(ctx, src, filepath.Join(dstDir, name)); err != nil {
		return fmt.Errorf("download %s: %w", src, err)
	}
	return nil
}
