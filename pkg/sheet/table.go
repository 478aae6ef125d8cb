// Package sheet читает табличные файлы (csv, xlsx, parquet) в простую
// строковую таблицу.
//
// Все ячейки приводятся к строкам: идентификаторы, метки и группы
// сравниваются как текст.
package sheet

import (
	"strings"
)

// Table — таблица с заголовком. Все строки имеют длину len(Columns).
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable создает таблицу, выравнивая строки по длине заголовка.
// Короткие строки дополняются пустыми ячейками, лишние ячейки отбрасываются.
func NewTable(columns []string, rows [][]string) *Table {
	cols := make([]string, len(columns))
	for i, c := range columns {
		cols[i] = strings.TrimSpace(c)
	}

	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		r := make([]string, len(cols))
		copy(r, row)
		out = append(out, r)
	}
	return &Table{Columns: cols, Rows: out}
}

// Len возвращает количество строк.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Index возвращает индекс колонки или -1.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column возвращает копию значений колонки.
func (t *Table) Column(name string) ([]string, error) {
	idx := t.Index(name)
	if idx < 0 {
		return nil, t.notFound(name)
	}
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[idx]
	}
	return values, nil
}

// Select возвращает новую таблицу только с указанными колонками в указанном порядке.
func (t *Table) Select(columns ...string) (*Table, error) {
	idx, err := t.indices(columns)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		r := make([]string, len(idx))
		for j, k := range idx {
			r[j] = row[k]
		}
		rows[i] = r
	}
	return &Table{Columns: append([]string(nil), columns...), Rows: rows}, nil
}

// DropClueless удаляет строки, в которых хотя бы одна из колонок пуста
// (после обрезки пробелов) или равна одному из clueless значений.
// Без колонок проверяются все.
func (t *Table) DropClueless(clueless map[string]struct{}, columns ...string) (*Table, error) {
	if len(columns) == 0 {
		columns = t.Columns
	}
	idx, err := t.indices(columns)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		keep := true
		for _, k := range idx {
			v := strings.TrimSpace(row[k])
			if v == "" {
				keep = false
				break
			}
			if _, bad := clueless[v]; bad {
				keep = false
				break
			}
		}
		if keep {
			rows = append(rows, row)
		}
	}
	return &Table{Columns: append([]string(nil), t.Columns...), Rows: rows}, nil
}

func (t *Table) indices(columns []string) ([]int, error) {
	idx := make([]int, len(columns))
	for i, c := range columns {
		k := t.Index(c)
		if k < 0 {
			return nil, t.notFound(c)
		}
		idx[i] = k
	}
	return idx, nil
}

func (t *Table) notFound(name string) error {
	return &ColumnNotFoundError{Column: name, Available: append([]string(nil), t.Columns...)}
}
