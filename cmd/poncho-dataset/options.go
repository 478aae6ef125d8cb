package main

import (
	"flag"
	"strings"

	"github.com/ilkoid/poncho-dataset/pkg/config"
)

// cliFlags — флаги подкоманд. Заданные явно перекрывают config.yaml.
type cliFlags struct {
	root       string
	labeled    bool
	ext        string
	labels     string
	idCol      string
	labelCol   string
	groups     string
	groupCol   string
	fullMatch  bool
	keepUnlab  bool
	train      float64
	balance    bool
	ignoreGrp  bool
	out        string
	dir        string
	trainDir   string
	valDir     string
	transform  string
	tui        bool
	workers    int
	seed       int64
	chart      string
	doMake     bool
	traceDir   string
	prefix     string
	configPath string
	debug      bool
}

func newFlagSet(name string, f *cliFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	fs.StringVar(&f.configPath, "config", "", "Path to config.yaml (default: next to binary or ./config.yaml)")
	fs.BoolVar(&f.debug, "debug", false, "Enable debug logging")

	fs.StringVar(&f.root, "root", "", "Dataset root directory")
	fs.BoolVar(&f.labeled, "labeled", false, "Root contains one subdirectory per label")
	fs.StringVar(&f.ext, "ext", "", "Comma-separated allowed filename suffixes (e.g. .png,.jpg)")

	fs.StringVar(&f.labels, "labels", "", "Label table (csv, txt, xlsx, xls, parquet)")
	fs.StringVar(&f.idCol, "id-col", "", "Identifier column of label/group tables")
	fs.StringVar(&f.labelCol, "label-col", "", "Label column of the label table")
	fs.StringVar(&f.groups, "groups", "", "Group table (csv, txt, xlsx, xls, parquet)")
	fs.StringVar(&f.groupCol, "group-col", "", "Group column of the group table")
	fs.BoolVar(&f.fullMatch, "full-match", false, "Identifiers must equal filenames")
	fs.BoolVar(&f.keepUnlab, "keep-unlabeled", false, "Keep files without a label")

	fs.Float64Var(&f.train, "train", 0, "Train fraction in [0, 1]")
	fs.BoolVar(&f.balance, "balance", false, "Balance label counts in each part")
	fs.BoolVar(&f.ignoreGrp, "ignore-groups", false, "Split without groups even if loaded")
	fs.StringVar(&f.out, "out", "", "Split files prefix: <out>_train.json, <out>_val.json")

	fs.StringVar(&f.dir, "dir", "", "Destination directory for 'process'")
	fs.StringVar(&f.trainDir, "train-dir", "", "Destination directory of the train part")
	fs.StringVar(&f.valDir, "val-dir", "", "Destination directory of the validation part")
	fs.StringVar(&f.transform, "transform", "", "Per-file transform: copy, resize, s3-upload")
	fs.BoolVar(&f.tui, "tui", false, "Show progress TUI")
	fs.IntVar(&f.workers, "workers", 0, "Worker budget")
	fs.Int64Var(&f.seed, "seed", 0, "Shuffle seed")

	fs.BoolVar(&f.doMake, "make", false, "'split': materialize train/val dirs after saving")
	fs.StringVar(&f.chart, "chart", "", "Chart output path for 'stats' (default: <out>_labels.png)")
	fs.StringVar(&f.traceDir, "trace", "", "Directory for JSON run traces")
	fs.StringVar(&f.prefix, "prefix", "", "S3 key prefix for 'pull' and 's3-upload'")

	return fs
}

// apply переносит явно заданные флаги в конфиг.
func (f *cliFlags) apply(fs *flag.FlagSet, cfg *config.AppConfig) {
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "root":
			cfg.Dataset.Root = f.root
		case "labeled":
			cfg.Dataset.Labeled = f.labeled
		case "ext":
			cfg.Dataset.Extensions = splitList(f.ext)
		case "labels":
			cfg.Tables.Labels.Path = f.labels
		case "id-col":
			cfg.Tables.Labels.IDColumn = f.idCol
			cfg.Tables.Groups.IDColumn = f.idCol
		case "label-col":
			cfg.Tables.Labels.ValueColumn = f.labelCol
		case "groups":
			cfg.Tables.Groups.Path = f.groups
		case "group-col":
			cfg.Tables.Groups.ValueColumn = f.groupCol
		case "full-match":
			cfg.Tables.Labels.FullMatch = f.fullMatch
			cfg.Tables.Groups.FullMatch = f.fullMatch
		case "keep-unlabeled":
			cfg.Tables.Labels.KeepUnlabeled = f.keepUnlab
		case "train":
			cfg.Split.TrainFraction = f.train
		case "balance":
			cfg.Split.Balance = f.balance
		case "ignore-groups":
			cfg.Split.IgnoreGroups = f.ignoreGrp
		case "out":
			cfg.Split.Output = f.out
		case "train-dir":
			cfg.Split.TrainDir = f.trainDir
		case "val-dir":
			cfg.Split.ValDir = f.valDir
		case "transform":
			cfg.Processing.Transform = f.transform
		case "workers":
			cfg.Dataset.AllowedCPUs = f.workers
		case "seed":
			seed := f.seed
			cfg.Dataset.Seed = &seed
		case "prefix":
			cfg.S3.Prefix = f.prefix
		case "trace":
			cfg.App.TraceDir = f.traceDir
		case "debug":
			cfg.App.Debug = f.debug
		}
	})
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
