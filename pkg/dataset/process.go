package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ilkoid/poncho-dataset/pkg/distribute"
	"github.com/ilkoid/poncho-dataset/pkg/events"
	"github.com/ilkoid/poncho-dataset/pkg/transform"
	"github.com/ilkoid/poncho-dataset/pkg/utils"
	"github.com/ilkoid/poncho-dataset/pkg/workers"
)

// MaterializeRequest — параметры записи датасета на диск.
type MaterializeRequest struct {
	Dir          string                  // Директория назначения (для Materialize)
	Data         Split                   // nil — весь загруженный список файлов
	Transform    transform.FileTransform // nil — transform.Copy
	Options      transform.Options       // Передаются преобразованию как есть
	KeepExisting bool                    // true: не очищать директорию назначения
	RateLimit    float64                 // Файлов в секунду, 0 — без ограничения
	Burst        int
	Emitter      events.Emitter // События прогресса, nil — без событий
}

// Materialize применяет преобразование к каждому файлу и пишет результат
// в req.Dir/<метка>.
//
// Без KeepExisting директория пересоздаётся с пустой поддиректорией на каждую
// метку. Ошибки отдельных файлов попадают в отчёт и не прерывают работу.
func (h *Handler) Materialize(ctx context.Context, req MaterializeRequest) (*workers.Report, error) {
	if req.Dir == "" {
		return nil, fmt.Errorf("materialize: destination directory is empty")
	}

	var srcs, dsts []string
	if req.Data != nil {
		srcs, dsts = h.pairsFromSplit(req.Data, req.Dir)
	} else {
		if len(h.files) == 0 {
			return nil, warn(ErrNoFiles, "load files before processing")
		}
		srcs, dsts = h.pairsFromFiles(req.Dir)
	}

	if err := h.prepare(req, []string{req.Dir}, dsts); err != nil {
		return nil, err
	}
	return h.run(ctx, srcs, dsts, req)
}

// MakeDatasets материализует train и validation за один распределённый прогон.
func (h *Handler) MakeDatasets(ctx context.Context, trainDir, valDir string, p *Partition, req MaterializeRequest) (*workers.Report, error) {
	if p == nil {
		return nil, fmt.Errorf("make datasets: partition is nil")
	}
	if trainDir == "" || valDir == "" {
		return nil, fmt.Errorf("make datasets: train and validation directories are required")
	}

	srcs, dsts := h.pairsFromSplit(p.Train, trainDir)
	vsrcs, vdsts := h.pairsFromSplit(p.Validation, valDir)
	srcs = append(srcs, vsrcs...)
	dsts = append(dsts, vdsts...)

	if err := h.prepare(req, []string{trainDir, valDir}, dsts); err != nil {
		return nil, err
	}
	return h.run(ctx, srcs, dsts, req)
}

func (h *Handler) pairsFromFiles(dir string) ([]string, []string) {
	srcs := make([]string, len(h.files))
	dsts := make([]string, len(h.files))
	for i, f := range h.files {
		srcs[i] = filepath.Join(h.root, f)
		if h.labels != nil {
			dsts[i] = filepath.Join(dir, h.labels[i])
		} else {
			dsts[i] = dir
		}
	}
	return srcs, dsts
}

func (h *Handler) pairsFromSplit(s Split, dir string) ([]string, []string) {
	files := s.Files()
	srcs := make([]string, len(files))
	dsts := make([]string, len(files))
	for i, f := range files {
		srcs[i] = filepath.Join(h.root, f)
		dsts[i] = filepath.Join(dir, s[f])
	}
	return srcs, dsts
}

// prepare очищает корни назначения (если нужно) и создаёт все директории меток.
//
// Корень назначения, совпадающий с корнем датасета или содержащий его,
// не очищается: возвращается ErrUnsafeDestination.
func (h *Handler) prepare(req MaterializeRequest, roots, dsts []string) error {
	if !req.KeepExisting {
		for _, root := range roots {
			if h.insideOf(root) {
				return warn(fmt.Errorf("%w: %s", ErrUnsafeDestination, root),
					"refusing to reset destination", "dir", root, "root", h.root)
			}
		}
		for _, root := range roots {
			if err := utils.ResetDirectory(root, h.uniqueLabels); err != nil {
				return err
			}
		}
	}
	return utils.EnsureDirectories(dsts)
}

// insideOf сообщает, лежит ли корень датасета внутри dir (или равен ему).
func (h *Handler) insideOf(dir string) bool {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	absRoot, err := filepath.Abs(h.root)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absDir, absRoot)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (h *Handler) run(ctx context.Context, srcs, dsts []string, req MaterializeRequest) (*workers.Report, error) {
	plan, err := distribute.Distribute(srcs, dsts, h.workers, h.seed)
	if err != nil {
		return nil, err
	}

	t := req.Transform
	if t == nil {
		t = transform.Copy{}
	}

	runner := workers.New(workers.Config{
		Workers:   h.workers,
		RateLimit: req.RateLimit,
		Burst:     req.Burst,
		Emitter:   req.Emitter,
	})
	return runner.Run(ctx, plan, t, req.Options)
}
