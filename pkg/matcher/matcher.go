// Package matcher сопоставляет идентификаторы из таблицы с именами файлов.
//
// Строки проверяются от самого длинного идентификатора к короткому:
// идентификатор, входящий в более длинный ("1" в "p1"), не забирает файл,
// которому подходит и длинный.
package matcher

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Row — пара идентификатор → значение из таблицы.
type Row struct {
	ID    string
	Value string
}

// Options — режим сопоставления.
type Options struct {
	// FullMatch — идентификатор должен совпадать с именем целиком,
	// а не быть его подстрокой.
	FullMatch bool

	// CluelessWords — значения-заглушки, равносильные отсутствию значения.
	CluelessWords []string
}

// Matcher сопоставляет имена файлов со строками таблицы.
type Matcher struct {
	rows      []Row
	fullMatch bool
	clueless  map[string]struct{}
}

// Clueless строит множество слов-заглушек.
func Clueless(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// New создаёт Matcher над копией rows, отсортированной по длине
// идентификатора по убыванию. При равной длине сохраняется порядок таблицы.
// Строки с пустым идентификатором или заглушкой отбрасываются.
func New(rows []Row, opts Options) *Matcher {
	clueless := Clueless(opts.CluelessWords...)

	kept := make([]Row, 0, len(rows))
	for _, r := range rows {
		if r.ID == "" {
			continue
		}
		if _, bad := clueless[r.ID]; bad {
			continue
		}
		kept = append(kept, r)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return utf8.RuneCountInString(kept[i].ID) > utf8.RuneCountInString(kept[j].ID)
	})

	return &Matcher{
		rows:      kept,
		fullMatch: opts.FullMatch,
		clueless:  clueless,
	}
}

// Rows возвращает отсортированные строки.
func (m *Matcher) Rows() []Row {
	out := make([]Row, len(m.rows))
	copy(out, m.rows)
	return out
}

func (m *Matcher) matches(id, filename string) bool {
	if m.fullMatch {
		return id == filename
	}
	return strings.Contains(filename, id)
}

// Match возвращает значение первой строки, подошедшей к filename.
//
// ok == false, если ни одна строка не подошла или у подошедшей строки
// значение-заглушка. Во втором случае более короткие идентификаторы
// не проверяются.
func (m *Matcher) Match(filename string) (value string, ok bool) {
	for _, r := range m.rows {
		if !m.matches(r.ID, filename) {
			continue
		}
		if _, bad := m.clueless[r.Value]; bad {
			return "", false
		}
		return r.Value, true
	}
	return "", false
}

// Assign сопоставляет каждое имя независимо. Файл без значения получает
// fallback(filename), при nil fallback — пустую строку.
func (m *Matcher) Assign(filenames []string, fallback func(filename string) string) []string {
	values := make([]string, len(filenames))
	for i, name := range filenames {
		if v, ok := m.Match(name); ok {
			values[i] = v
			continue
		}
		if fallback != nil {
			values[i] = fallback(name)
		}
	}
	return values
}

// Self — fallback для групп: файл без совпадения сам себе группа.
func Self(filename string) string {
	return filename
}
