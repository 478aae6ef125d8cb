// Package workers выполняет план шардов параллельно.
//
// Каждый шард обрабатывается одной горутиной последовательно, одновременно
// работает не больше Workers шардов. Ошибка или panic одного файла
// записывается в отчёт, шард продолжает работу.
package workers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/ilkoid/poncho-dataset/pkg/distribute"
	"github.com/ilkoid/poncho-dataset/pkg/events"
	"github.com/ilkoid/poncho-dataset/pkg/transform"
	"github.com/ilkoid/poncho-dataset/pkg/utils"
)

// Config — настройки пула.
type Config struct {
	Workers   int            // Максимум одновременно работающих шардов, минимум 1
	RateLimit float64        // Файлов в секунду на весь пул, 0 — без ограничения
	Burst     int            // Размер всплеска для RateLimit, минимум 1
	Emitter   events.Emitter // nil — события не отправляются
}

// FileError — ошибка обработки одного файла.
type FileError struct {
	Shard   int
	Source  string
	DestDir string
	Err     error
}

func (e FileError) Error() string {
	return fmt.Sprintf("shard %d: %s -> %s: %v", e.Shard, e.Source, e.DestDir, e.Err)
}

func (e FileError) Unwrap() error {
	return e.Err
}

// Report — итог выполнения плана.
type Report struct {
	Shards    int
	Processed int
	Failed    int
	Failures  []FileError
	Duration  time.Duration
}

// OK сообщает, что все файлы обработаны без ошибок.
func (r *Report) OK() bool {
	return r.Failed == 0
}

// Runner — пул воркеров.
type Runner struct {
	workers int
	limiter *rate.Limiter
	emitter events.Emitter
}

// New создает пул. Некорректные значения заменяются минимальными.
func New(cfg Config) *Runner {
	r := &Runner{
		workers: cfg.Workers,
		emitter: cfg.Emitter,
	}
	if r.workers < 1 {
		r.workers = 1
	}
	if r.emitter == nil {
		r.emitter = events.Nop{}
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		r.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return r
}

// Workers возвращает бюджет воркеров.
func (r *Runner) Workers() int {
	return r.workers
}

// Run применяет t к каждой паре (source, destination dir) плана.
//
// Возвращает отчёт всегда. Ошибка возвращается только при отмене контекста:
// новые файлы после отмены не запускаются, отчёт содержит то, что успело
// выполниться.
func (r *Runner) Run(ctx context.Context, plan distribute.Plan, t transform.FileTransform, opts transform.Options) (*Report, error) {
	start := time.Now()
	report := &Report{Shards: plan.Len()}

	r.emitter.Emit(ctx, events.New(events.EventRunStarted, events.RunData{
		Shards: plan.Len(),
		Files:  plan.Total(),
	}))
	utils.Debug("run started", "shards", plan.Len(), "files", plan.Total(), "workers", r.workers)

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(r.workers)

	for shard := 0; shard < plan.Len(); shard++ {
		if ctx.Err() != nil {
			break
		}
		sources := plan.Sources[shard]
		dests := plan.Destinations[shard]

		g.Go(func() error {
			processed, failures, err := r.runShard(ctx, shard, sources, dests, t, opts)

			mu.Lock()
			report.Processed += processed
			report.Failed += len(failures)
			report.Failures = append(report.Failures, failures...)
			mu.Unlock()

			return err
		})
	}

	err := g.Wait()
	report.Duration = time.Since(start)

	r.emitter.Emit(context.WithoutCancel(ctx), events.New(events.EventDone, events.DoneData{
		Processed: report.Processed,
		Failed:    report.Failed,
		Duration:  report.Duration,
	}))

	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		utils.Warn("run interrupted", "processed", report.Processed, "error", err)
		return report, err
	}

	utils.Info("run finished", "processed", report.Processed, "failed", report.Failed, "duration", report.Duration)
	return report, nil
}

func (r *Runner) runShard(
	ctx context.Context,
	shard int,
	sources, dests []string,
	t transform.FileTransform,
	opts transform.Options,
) (int, []FileError, error) {
	r.emitter.Emit(ctx, events.New(events.EventShardStarted, events.ShardData{Shard: shard, Size: len(sources)}))

	var processed int
	var failures []FileError

	for i, src := range sources {
		if err := ctx.Err(); err != nil {
			return processed, failures, err
		}
		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				return processed, failures, ctx.Err()
			}
		}

		fileStart := time.Now()
		err := apply(ctx, t, src, dests[i], opts)
		data := events.FileData{
			Shard:    shard,
			Source:   src,
			DestDir:  dests[i],
			Duration: time.Since(fileStart),
			Err:      err,
		}

		if err != nil {
			utils.Error("transform failed", "shard", shard, "src", src, "dst", dests[i], "error", err)
			failures = append(failures, FileError{Shard: shard, Source: src, DestDir: dests[i], Err: err})
			r.emitter.Emit(ctx, events.New(events.EventFileFailed, data))
			continue
		}

		processed++
		r.emitter.Emit(ctx, events.New(events.EventFileDone, data))
	}

	r.emitter.Emit(ctx, events.New(events.EventShardFinished, events.ShardData{Shard: shard, Size: len(sources)}))
	return processed, failures, nil
}

// apply вызывает преобразование, превращая panic в ошибку.
func apply(ctx context.Context, t transform.FileTransform, src, dstDir string, opts transform.Options) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return t.Apply(ctx, src, dstDir, opts)
}
