package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilkoid/poncho-dataset/pkg/dataset"
	"github.com/ilkoid/poncho-dataset/pkg/events"
	"github.com/ilkoid/poncho-dataset/pkg/report"
	"github.com/ilkoid/poncho-dataset/pkg/utils"
	"github.com/ilkoid/poncho-dataset/pkg/workers"
)

func (e *env) splitOptions() dataset.SplitOptions {
	return dataset.SplitOptions{
		TrainFraction: e.cfg.Split.TrainFraction,
		Balance:       e.cfg.Split.Balance,
		IgnoreGroups:  e.cfg.Split.IgnoreGroups,
	}
}

func (e *env) splitAndSave(h *dataset.Handler) (*dataset.Partition, error) {
	p, err := h.Split(e.splitOptions())
	if err != nil {
		return nil, err
	}
	if err := dataset.SavePartition(e.cfg.Split.Output, p); err != nil {
		return nil, err
	}
	train, val := dataset.PartitionPaths(e.cfg.Split.Output)
	fmt.Printf("✅ split saved: %s (%d), %s (%d)\n", train, len(p.Train), val, len(p.Validation))
	return p, nil
}

// runSplit — split: загрузка, разбиение, сохранение в JSON. С -make
// разбиение сразу материализуется.
func runSplit(e *env) error {
	h, err := e.load()
	if err != nil {
		return err
	}
	p, err := e.splitAndSave(h)
	if err != nil {
		return err
	}
	if err := report.WriteTable(os.Stdout, report.Counts(p)); err != nil {
		return err
	}
	if !e.flags.doMake {
		return nil
	}
	return e.makeDatasets(h, p)
}

// runMake — make: материализация сохранённого разбиения. Если файлов
// разбиения нет, оно строится и сохраняется.
func runMake(e *env) error {
	if e.cfg.Split.TrainDir == "" || e.cfg.Split.ValDir == "" {
		return fmt.Errorf("-train-dir and -val-dir are required")
	}

	h, err := e.load()
	if err != nil {
		return err
	}

	p, err := dataset.LoadPartition(e.cfg.Split.Output)
	switch {
	case err == nil:
		utils.Info("using saved split", "prefix", e.cfg.Split.Output)
	case errors.Is(err, os.ErrNotExist):
		if p, err = e.splitAndSave(h); err != nil {
			return err
		}
	default:
		return err
	}
	return e.makeDatasets(h, p)
}

func (e *env) makeDatasets(h *dataset.Handler, p *dataset.Partition) error {
	trainDir, valDir := e.cfg.Split.TrainDir, e.cfg.Split.ValDir
	if trainDir == "" || valDir == "" {
		return fmt.Errorf("-train-dir and -val-dir are required")
	}

	t, opts, err := e.transform(filepath.Dir(filepath.Clean(trainDir)))
	if err != nil {
		return err
	}
	req := e.request(t, opts)

	return finish(e.execute("make datasets", func(ctx context.Context, em events.Emitter) (*workers.Report, error) {
		req.Emitter = em
		return h.MakeDatasets(ctx, trainDir, valDir, p, req)
	}))
}

// runProcess — process: все загруженные файлы в -dir/<метка>.
func runProcess(e *env) error {
	dir := e.flags.dir
	if dir == "" {
		return fmt.Errorf("-dir is required")
	}

	h, err := e.load()
	if err != nil {
		return err
	}

	t, opts, err := e.transform(dir)
	if err != nil {
		return err
	}
	req := e.request(t, opts)
	req.Dir = dir

	return finish(e.execute("process", func(ctx context.Context, em events.Emitter) (*workers.Report, error) {
		req.Emitter = em
		return h.Materialize(ctx, req)
	}))
}

// runPull — pull: префикс S3 в корень датасета.
func runPull(e *env) error {
	client, err := e.s3Client()
	if err != nil {
		return err
	}
	if client == nil {
		return fmt.Errorf("s3 is not configured (s3.endpoint and s3.bucket are required)")
	}

	if err := os.MkdirAll(e.cfg.Dataset.Root, 0755); err != nil {
		return fmt.Errorf("create dataset root: %w", err)
	}
	h, err := e.handler()
	if err != nil {
		return err
	}

	return finish(e.execute("pull", func(ctx context.Context, em events.Emitter) (*workers.Report, error) {
		return h.Pull(ctx, dataset.PullRequest{
			Client:    client,
			Prefix:    e.cfg.S3.Prefix,
			RateLimit: e.cfg.Processing.RateLimit,
			Burst:     e.cfg.Processing.Burst,
			Emitter:   em,
		})
	}))
}

// runStats — stats: таблица меток сохранённого разбиения и график.
func runStats(e *env) error {
	p, err := dataset.LoadPartition(e.cfg.Split.Output)
	if err != nil {
		return err
	}

	rows := report.Counts(p)
	if err := report.WriteTable(os.Stdout, rows); err != nil {
		return err
	}

	chart := e.flags.chart
	if chart == "" {
		chart = e.cfg.Split.Output + "_labels.png"
	}
	if err := report.SaveChart(chart, rows); err != nil {
		return err
	}
	fmt.Printf("📊 chart saved: %s\n", chart)
	return nil
}
