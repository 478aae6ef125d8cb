package dataset

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/ilkoid/poncho-dataset/pkg/events"
	"github.com/ilkoid/poncho-dataset/pkg/s3storage"
	"github.com/ilkoid/poncho-dataset/pkg/transform"
	"github.com/ilkoid/poncho-dataset/pkg/utils"
	"github.com/ilkoid/poncho-dataset/pkg/workers"
)

// PullRequest — параметры зеркалирования префикса S3 в корень датасета.
type PullRequest struct {
	Client    s3storage.ClientInterface
	Prefix    string
	RateLimit float64
	Burst     int
	Emitter   events.Emitter
}

// Pull скачивает объекты под Prefix в корень датасета, сохраняя
// вложенность (поддиректории меток). Фильтр расширений Handler применяется
// к именам объектов. Список файлов Handler не меняется: после Pull
// вызывается одна из загрузок.
func (h *Handler) Pull(ctx context.Context, req PullRequest) (*workers.Report, error) {
	if req.Client == nil {
		return nil, fmt.Errorf("pull: s3 client is nil")
	}

	prefix := s3storage.NormalizePrefix(req.Prefix)
	objects, err := req.Client.ListFiles(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("pull: list %s: %w", prefix, err)
	}

	var keys, dsts []string
	for _, obj := range objects {
		if !h.allowed(path.Base(obj.Key)) {
			continue
		}
		rel := path.Dir(strings.TrimPrefix(obj.Key, prefix))
		if rel == "." {
			rel = ""
		}
		keys = append(keys, obj.Key)
		dsts = append(dsts, filepath.Join(h.root, filepath.FromSlash(rel)))
	}
	if len(keys) == 0 {
		return nil, warn(ErrEmptyResult, "no object to pull", "prefix", prefix)
	}

	if err := utils.EnsureDirectories(dsts); err != nil {
		return nil, err
	}

	utils.Info("pulling objects", "prefix", prefix, "objects", len(keys))
	return h.run(ctx, keys, dsts, MaterializeRequest{
		Transform: &transform.Download{Client: req.Client},
		RateLimit: req.RateLimit,
		Burst:     req.Burst,
		Emitter:   req.Emitter,
	})
}
