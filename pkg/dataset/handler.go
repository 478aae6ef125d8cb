// Package dataset собирает датасет на диске: список файлов, метки и группы,
// разбиение на train/validation и материализацию через пул воркеров.
//
// Handler хранит состояние в памяти. Каждая загрузка заменяет его целиком
// или не меняет вовсе.
package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ilkoid/poncho-dataset/pkg/matcher"
	"github.com/ilkoid/poncho-dataset/pkg/random"
	"github.com/ilkoid/poncho-dataset/pkg/sheet"
	"github.com/ilkoid/poncho-dataset/pkg/utils"
)

// Config — параметры Handler.
type Config struct {
	Root       string       // Директория с исходными файлами
	Extensions []string     // Допустимые суффиксы имён, пусто — любые файлы
	Workers    int          // Бюджет воркеров, минимум 1
	Seed       int64        // Сид всех перемешиваний
	Tables     sheet.Reader // nil — sheet.FileReader
}

// DefaultConfig возвращает конфиг с одним воркером и сидом по умолчанию.
func DefaultConfig(root string) Config {
	return Config{
		Root:    root,
		Workers: 1,
		Seed:    random.DefaultSeed,
	}
}

// Handler — сборщик датасета.
//
// Не потокобезопасен: методы загрузки и разбиения вызываются из одной
// горутины. Параллельна только материализация.
type Handler struct {
	root       string
	extensions []string
	workers    int
	seed       int64
	tables     sheet.Reader

	files        []string
	labels       []string // nil — метки не загружены
	uniqueLabels []string
	groups       []string // nil — группы не загружены
}

// New создает Handler. Корень должен быть существующей директорией.
func New(cfg Config) (*Handler, error) {
	info, err := os.Stat(cfg.Root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, cfg.Root)
	}

	h := &Handler{
		root:       cfg.Root,
		extensions: append([]string(nil), cfg.Extensions...),
		workers:    cfg.Workers,
		seed:       cfg.Seed,
		tables:     cfg.Tables,
	}
	if h.workers < 1 {
		h.workers = 1
	}
	if h.tables == nil {
		h.tables = sheet.FileReader{}
	}
	return h, nil
}

// Root возвращает корень датасета.
func (h *Handler) Root() string { return h.root }

// Seed возвращает сид перемешиваний.
func (h *Handler) Seed() int64 { return h.seed }

// Workers возвращает бюджет воркеров.
func (h *Handler) Workers() int { return h.workers }

// Files возвращает копию списка файлов (пути относительно корня).
func (h *Handler) Files() []string { return clone(h.files) }

// Labels возвращает копию меток, параллельных Files. nil — метки не загружены.
func (h *Handler) Labels() []string { return clone(h.labels) }

// UniqueLabels возвращает отсортированные непустые метки.
func (h *Handler) UniqueLabels() []string { return clone(h.uniqueLabels) }

// Groups возвращает копию групп, параллельных Files. nil — группы не загружены.
func (h *Handler) Groups() []string { return clone(h.groups) }

// LoadFromDirectory загружает файлы, лежащие прямо в корне.
//
// Заменяет список файлов и сбрасывает метки и группы. Если подходящих
// файлов нет, состояние не меняется и возвращается ErrEmptyResult.
func (h *Handler) LoadFromDirectory() error {
	files, err := h.listFiles(h.root)
	if err != nil {
		return warn(err, "failed to list dataset root", "root", h.root)
	}
	if len(files) == 0 {
		return warn(ErrEmptyResult, "no file kept, nothing changed", "root", h.root)
	}

	h.files = files
	h.labels = nil
	h.uniqueLabels = nil
	h.groups = nil

	utils.Info("files loaded", "root", h.root, "files", len(files))
	return nil
}

// LoadFromLabeledSubdirectories загружает файлы из поддиректорий корня,
// имя поддиректории становится меткой.
//
// Пути файлов включают поддиректорию. Поддиректории без подходящих файлов
// не попадают в UniqueLabels.
func (h *Handler) LoadFromLabeledSubdirectories() error {
	entries, err := os.ReadDir(h.root)
	if err != nil {
		return warn(err, "failed to list dataset root", "root", h.root)
	}

	var files, labels, unique []string
	for _, e := range entries {
		if !isDir(filepath.Join(h.root, e.Name()), e) {
			continue
		}
		label := e.Name()
		names, err := h.listFiles(filepath.Join(h.root, label))
		if err != nil {
			return warn(err, "failed to list label directory", "label", label)
		}
		if len(names) == 0 {
			utils.Debug("label without files skipped", "label", label)
			continue
		}
		for _, name := range names {
			files = append(files, filepath.Join(label, name))
			labels = append(labels, label)
		}
		unique = append(unique, label)
	}

	if len(files) == 0 {
		return warn(ErrEmptyResult, "no file or label kept, nothing changed", "root", h.root)
	}

	h.files = files
	h.labels = labels
	h.uniqueLabels = unique
	h.groups = nil

	utils.Info("labeled files loaded", "root", h.root, "files", len(files), "labels", len(unique))
	return nil
}

// LabelTableOptions — колонки и режим сопоставления таблицы меток.
type LabelTableOptions struct {
	IDColumn      string   // Колонка с частью имени файла
	LabelColumn   string   // Колонка с меткой
	OtherColumns  []string // Дополнительные колонки, строки с пустыми ячейками в них тоже отбрасываются
	CluelessWords []string // Значения, равносильные пустой ячейке
	KeepUnlabeled bool     // false: файлы без метки удаляются из датасета
	FullMatch     bool     // Идентификатор должен совпадать с именем целиком
}

// LoadLabelsFromTable назначает метки загруженным файлам по таблице.
//
// Идентификаторы сопоставляются с именами от самого длинного к самому
// короткому. Если ни один файл не получил метку, состояние не меняется.
func (h *Handler) LoadLabelsFromTable(path string, opts LabelTableOptions) error {
	if len(h.files) == 0 {
		return warn(ErrNoFiles, "load files before labels", "table", path)
	}

	columns := append([]string{opts.IDColumn, opts.LabelColumn}, opts.OtherColumns...)
	rows, err := h.readRows(path, columns, opts.CluelessWords, true)
	if err != nil {
		return warn(err, "failed to read label table", "table", path)
	}

	m := matcher.New(rows, matcher.Options{FullMatch: opts.FullMatch, CluelessWords: opts.CluelessWords})
	labels := m.Assign(h.files, nil)

	keep := make([]int, 0, len(labels))
	for i, l := range labels {
		if l != "" || opts.KeepUnlabeled {
			keep = append(keep, i)
		}
	}
	if len(uniqueNonEmpty(labels)) == 0 {
		return warn(ErrEmptyResult, "no label kept, nothing changed", "table", path)
	}

	h.files = pick(h.files, keep)
	h.labels = pick(labels, keep)
	if h.groups != nil {
		h.groups = pick(h.groups, keep)
	}
	h.uniqueLabels = uniqueNonEmpty(h.labels)

	utils.Info("labels loaded", "table", path, "files", len(h.files), "labels", len(h.uniqueLabels),
		"dropped", len(labels)-len(keep))
	return nil
}

// GroupTableOptions — колонки и режим сопоставления таблицы групп.
type GroupTableOptions struct {
	IDColumn      string
	GroupColumn   string
	CluelessWords []string // Пустая строка всегда считается отсутствием группы
	FullMatch     bool
}

// LoadGroupsFromTable назначает группы загруженным файлам по таблице.
//
// Файл без совпадения становится собственной группой. Файлы не удаляются.
func (h *Handler) LoadGroupsFromTable(path string, opts GroupTableOptions) error {
	if len(h.files) == 0 {
		return warn(ErrNoFiles, "load files before groups", "table", path)
	}

	clueless := append([]string{""}, opts.CluelessWords...)
	rows, err := h.readRows(path, []string{opts.IDColumn, opts.GroupColumn}, clueless, false)
	if err != nil {
		return warn(err, "failed to read group table", "table", path)
	}

	m := matcher.New(rows, matcher.Options{FullMatch: opts.FullMatch, CluelessWords: clueless})
	h.groups = m.Assign(h.files, matcher.Self)

	utils.Info("groups loaded", "table", path, "groups", len(uniqueNonEmpty(h.groups)))
	return nil
}

// readRows читает таблицу и возвращает пары (columns[0], columns[1]).
// dropClueless отбрасывает строки с пустыми или clueless ячейками в columns.
func (h *Handler) readRows(path string, columns, clueless []string, dropClueless bool) ([]matcher.Row, error) {
	tbl, err := h.tables.Read(path)
	if err != nil {
		return nil, err
	}
	tbl, err = tbl.Select(columns...)
	if err != nil {
		return nil, err
	}
	if dropClueless {
		tbl, err = tbl.DropClueless(matcher.Clueless(clueless...))
		if err != nil {
			return nil, err
		}
	}

	rows := make([]matcher.Row, 0, tbl.Len())
	for _, r := range tbl.Rows {
		rows = append(rows, matcher.Row{ID: strings.TrimSpace(r[0]), Value: strings.TrimSpace(r[1])})
	}
	return rows, nil
}

// listFiles возвращает отсортированные имена обычных файлов dir,
// прошедших фильтр расширений.
func (h *Handler) listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if isDir(filepath.Join(dir, e.Name()), e) || !h.allowed(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

func (h *Handler) allowed(name string) bool {
	if len(h.extensions) == 0 {
		return true
	}
	for _, ext := range h.extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// isDir учитывает символические ссылки на директории.
func isDir(path string, e os.DirEntry) bool {
	if e.IsDir() {
		return true
	}
	if e.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func uniqueNonEmpty(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func pick(values []string, keep []int) []string {
	out := make([]string, len(keep))
	for i, k := range keep {
		out[i] = values[k]
	}
	return out
}

func clone(values []string) []string {
	if values == nil {
		return nil
	}
	return append([]string(nil), values...)
}
