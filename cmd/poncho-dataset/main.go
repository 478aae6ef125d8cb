// Poncho-dataset — CLI для подготовки датасетов изображений.
//
// Использование:
//
//	./poncho-dataset split   -root ./images -labels labels.csv -id-col file -label-col class
//	./poncho-dataset make    -train-dir out/train -val-dir out/val -transform resize -tui
//	./poncho-dataset process -root ./images -labeled -dir out/all
//	./poncho-dataset pull    -root ./images -prefix datasets/cats
//	./poncho-dataset stats   -out split -chart split.png
//
// config.yaml ищется по флагу -config, рядом с бинарником или в текущей
// директории. Без файла утилита работает на дефолтах и флагах.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
)

// Version — версия утилиты (заполняется при сборке)
var Version = "dev"

var commands = map[string]func(*env) error{
	"split":   runSplit,
	"make":    runMake,
	"process": runProcess,
	"pull":    runPull,
	"stats":   runStats,
}

func main() {
	if len(os.Args) < 2 {
		printHelp(os.Stderr)
		os.Exit(2)
	}

	switch os.Args[1] {
	case "-version", "--version", "version":
		fmt.Printf("poncho-dataset version %s\n", Version)
		return
	case "-help", "--help", "-h", "help":
		printHelp(os.Stdout)
		return
	}

	name := os.Args[1]
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", name)
		printHelp(os.Stderr)
		os.Exit(2)
	}

	e, err := newEnv(name, os.Args[2:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
	defer e.close()

	if err := cmd(e); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %s failed: %v\n", name, err)
		e.close()
		os.Exit(1)
	}
}

func printHelp(w io.Writer) {
	fmt.Fprintf(w, `poncho-dataset %s — image dataset toolkit

Usage:
  poncho-dataset <command> [flags]

Commands:
  split    Load files and labels, split into train/validation, save <out>_train.json and <out>_val.json
  make     Materialize a saved (or fresh) split into -train-dir and -val-dir
  process  Materialize all loaded files into -dir/<label>
  pull     Download an S3 prefix into the dataset root
  stats    Print per-label counts of a saved split and draw a chart

Run 'poncho-dataset <command> -h' for command flags.
`, Version)
}
