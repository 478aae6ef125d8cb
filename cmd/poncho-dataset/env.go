package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ilkoid/poncho-dataset/internal/ui"
	"github.com/ilkoid/poncho-dataset/pkg/backend"
	"github.com/ilkoid/poncho-dataset/pkg/config"
	"github.com/ilkoid/poncho-dataset/pkg/dataset"
	"github.com/ilkoid/poncho-dataset/pkg/debug"
	"github.com/ilkoid/poncho-dataset/pkg/events"
	"github.com/ilkoid/poncho-dataset/pkg/s3storage"
	"github.com/ilkoid/poncho-dataset/pkg/transform"
	"github.com/ilkoid/poncho-dataset/pkg/utils"
	"github.com/ilkoid/poncho-dataset/pkg/workers"
)

// tuiBuffer — ёмкость канала событий для TUI.
const tuiBuffer = 256

// env — окружение подкоманды: конфиг с учётом флагов, контекст с
// обработкой сигналов, логгер.
type env struct {
	name     string
	flags    cliFlags
	cfg      *config.AppConfig
	cfgPath  string
	ctx      context.Context
	shutdown func()
}

func newEnv(name string, args []string) (*env, error) {
	e := &env{name: name}

	fs := newFlagSet(name, &e.flags)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	cfg, path, err := config.LoadOrDefault(&config.StandalonePathFinder{ConfigFlag: e.flags.configPath})
	if err != nil {
		return nil, err
	}
	e.flags.apply(fs, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	e.cfg, e.cfgPath = cfg, path

	if err := e.setupLogging(); err != nil {
		return nil, err
	}
	if path != "" {
		utils.Info("config loaded", "path", path, "command", name)
	}

	e.ctx, e.shutdown = utils.SetupGracefulShutdownWithContext()
	return e, nil
}

func (e *env) setupLogging() error {
	app := e.cfg.App
	switch {
	case app.LogDir != "":
		if err := os.MkdirAll(app.LogDir, 0755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
		return utils.InitLogger(app.LogDir, app.Debug)
	case app.Debug:
		utils.SetOutput(os.Stderr)
	}
	return nil
}

func (e *env) close() {
	if e.shutdown != nil {
		e.shutdown()
		e.shutdown = nil
	}
}

func (e *env) handler() (*dataset.Handler, error) {
	dc := dataset.DefaultConfig(e.cfg.Dataset.Root)
	dc.Extensions = e.cfg.Dataset.Extensions
	dc.Workers = e.cfg.Workers()
	dc.Seed = e.cfg.Seed()
	return dataset.New(dc)
}

// load собирает датасет: файлы, затем метки и группы из таблиц конфига.
func (e *env) load() (*dataset.Handler, error) {
	h, err := e.handler()
	if err != nil {
		return nil, err
	}

	if e.cfg.Dataset.Labeled {
		err = h.LoadFromLabeledSubdirectories()
	} else {
		err = h.LoadFromDirectory()
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", e.cfg.Dataset.Root, err)
	}

	t := e.cfg.Tables
	if t.Labels.Path != "" {
		err := h.LoadLabelsFromTable(t.Labels.Path, dataset.LabelTableOptions{
			IDColumn:      t.Labels.IDColumn,
			LabelColumn:   t.Labels.ValueColumn,
			CluelessWords: t.CluelessWords,
			KeepUnlabeled: t.Labels.KeepUnlabeled,
			FullMatch:     t.Labels.FullMatch,
		})
		if err != nil {
			return nil, fmt.Errorf("load labels: %w", err)
		}
	}
	if t.Groups.Path != "" {
		err := h.LoadGroupsFromTable(t.Groups.Path, dataset.GroupTableOptions{
			IDColumn:      t.Groups.IDColumn,
			GroupColumn:   t.Groups.ValueColumn,
			CluelessWords: t.CluelessWords,
			FullMatch:     t.Groups.FullMatch,
		})
		if err != nil {
			return nil, fmt.Errorf("load groups: %w", err)
		}
	}

	utils.Info("dataset loaded", "files", len(h.Files()), "labels", len(h.UniqueLabels()))
	return h, nil
}

func (e *env) s3Client() (s3storage.ClientInterface, error) {
	if !e.cfg.S3.Enabled() {
		return nil, nil
	}
	c, err := s3storage.New(e.cfg.S3)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// transform выбирает преобразование по имени из конфига. base — корень,
// относительно которого s3-upload строит ключи.
func (e *env) transform(base string) (transform.FileTransform, transform.Options, error) {
	client, err := e.s3Client()
	if err != nil {
		return nil, nil, err
	}

	img := e.cfg.ImageProcessing
	caps := backend.Select(e.cfg.Processing.UseGPU, img.Interpolation)
	reg := transform.Builtins(caps, client, e.cfg.S3.Prefix, base)

	name := e.cfg.Processing.Transform
	t, err := reg.Get(name)
	if err != nil {
		return nil, nil, fmt.Errorf("%w (available: %v)", err, reg.Names())
	}

	opts := transform.Options{}
	if name == transform.NameResize {
		opts = opts.
			With(transform.OptWidth, img.Width).
			With(transform.OptHeight, img.Height).
			With(transform.OptQuality, img.Quality)
	}
	return t, opts, nil
}

func (e *env) request(t transform.FileTransform, opts transform.Options) dataset.MaterializeRequest {
	return dataset.MaterializeRequest{
		Transform:    t,
		Options:      opts,
		KeepExisting: !e.cfg.EmptyDir(),
		RateLimit:    e.cfg.Processing.RateLimit,
		Burst:        e.cfg.Processing.Burst,
	}
}

type job func(ctx context.Context, em events.Emitter) (*workers.Report, error)

// execute запускает job, с -tui показывая прогресс. Выход из TUI
// отменяет прогон. С app.trace_dir трейс прогона пишется в JSON.
func (e *env) execute(title string, run job) (*workers.Report, error) {
	rec, err := e.recorder(title)
	if err != nil {
		return nil, err
	}

	var rep *workers.Report
	if e.flags.tui {
		rep, err = e.executeTUI(title, run, rec)
	} else {
		rep, err = run(e.ctx, emitters(rec))
	}

	if rec != nil {
		path, ferr := rec.Finalize(err)
		if ferr != nil {
			utils.Warn("failed to save run trace", "error", ferr)
		} else {
			fmt.Printf("🔍 trace saved: %s\n", path)
		}
	}
	return rep, err
}

func (e *env) executeTUI(title string, run job, rec *debug.Recorder) (*workers.Report, error) {
	ctx, cancel := context.WithCancel(e.ctx)
	defer cancel()

	em := events.NewLossyChanEmitter(tuiBuffer)
	type result struct {
		rep *workers.Report
		err error
	}
	done := make(chan result, 1)
	go func() {
		rep, err := run(ctx, emitters(rec, em))
		em.Close()
		done <- result{rep, err}
	}()

	uiErr := ui.Run(ctx, title, em.Subscribe(), cancel)
	res := <-done
	if uiErr != nil && ctx.Err() == nil {
		utils.Warn("TUI stopped with error", "error", uiErr)
	}
	if n := em.Dropped(); n > 0 {
		utils.Debug("progress events dropped", "count", n)
	}
	return res.rep, res.err
}

func (e *env) recorder(title string) (*debug.Recorder, error) {
	app := e.cfg.App
	if app.TraceDir == "" {
		return nil, nil
	}
	rec, err := debug.NewRecorder(debug.RecorderConfig{
		LogsDir:      app.TraceDir,
		IncludeFiles: app.TraceFiles,
		MaxErrors:    100,
	})
	if err != nil {
		return nil, err
	}
	rec.Start(e.name + ": " + title)
	return rec, nil
}

// emitters собирает непустые эмиттеры. nil, если их нет.
func emitters(rec *debug.Recorder, rest ...events.Emitter) events.Emitter {
	var m events.Multi
	if rec != nil {
		m = append(m, rec)
	}
	for _, e := range rest {
		if e != nil {
			m = append(m, e)
		}
	}
	if len(m) == 0 {
		return nil
	}
	return m
}

// finish печатает отчёт и превращает ошибки файлов в ошибку команды.
func finish(rep *workers.Report, err error) error {
	if rep != nil {
		fmt.Printf("✅ processed %d file(s) in %s", rep.Processed, rep.Duration.Round(time.Millisecond))
		if rep.Failed > 0 {
			fmt.Printf(", ❌ failed %d", rep.Failed)
		}
		fmt.Println()
		for i, f := range rep.Failures {
			if i == 10 {
				fmt.Printf("   ... and %d more\n", len(rep.Failures)-i)
				break
			}
			fmt.Printf("   %s: %v\n", filepath.Base(f.Source), f.Err)
		}
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("interrupted")
		}
		return err
	}
	if rep != nil && !rep.OK() {
		return fmt.Errorf("%d file(s) failed", rep.Failed)
	}
	return nil
}
