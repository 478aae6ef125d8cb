package sheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xuri/excelize/v2"
)

// Reader читает таблицу из файла.
//
// Позволяет подменить чтение таблиц в тестах.
type Reader interface {
	Read(path string) (*Table, error)
}

// ReaderFunc — адаптер функции к Reader.
type ReaderFunc func(path string) (*Table, error)

// Read вызывает f.
func (f ReaderFunc) Read(path string) (*Table, error) {
	return f(path)
}

// FileReader — Reader по умолчанию, выбирает формат по расширению.
type FileReader struct{}

// Read вызывает ReadFile.
func (FileReader) Read(path string) (*Table, error) {
	return ReadFile(path)
}

var _ Reader = FileReader{}

// Ext возвращает расширение файла без точки в нижнем регистре.
func Ext(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// ReadFile читает таблицу, выбирая формат по расширению:
//   - csv, txt — текст с разделителями (для txt разделитель табуляция,
//     если она есть в заголовке)
//   - xlsx, xlsm — первый лист книги Excel
//   - xls — первый лист книги Excel 97-2003 (BIFF)
//   - parquet — все колонки, значения приведены к строкам
//
// Остальные расширения возвращают ErrUnsupportedFormat.
func ReadFile(path string) (*Table, error) {
	ext := Ext(path)
	switch ext {
	case "csv", "txt":
		return readDelimited(path, ext)
	case "xlsx", "xlsm":
		return readExcel(path)
	case "xls":
		return readXLS(path)
	case "parquet":
		return readParquet(path)
	default:
		return nil, &UnsupportedFormatError{Path: path, Ext: ext}
	}
}

func readDelimited(path, ext string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", path, err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	if ext == "txt" {
		firstLine, _, _ := bytes.Cut(data, []byte("\n"))
		if bytes.ContainsRune(firstLine, '\t') {
			r.Comma = '\t'
		}
	}

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse table %s: %w", path, err)
	}
	return fromRecords(records), nil
}

func readExcel(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read workbook %s: %w", path, err)
	}
	return fromRecords(rows), nil
}

// readXLS читает первый лист книги BIFF. Пропущенные строки становятся
// пустыми, ячейки — строками, как их показывает Excel.
func readXLS(path string) (t *Table, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	// Парсер BIFF паникует на повреждённых файлах
	defer func() {
		if r := recover(); r != nil {
			t, err = nil, fmt.Errorf("read workbook %s: %v", path, r)
		}
	}()

	wb, err := xls.OpenReader(f, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	ws := wb.GetSheet(0)
	if ws == nil {
		return fromRecords(nil), nil
	}

	records := make([][]string, 0, int(ws.MaxRow)+1)
	for i := 0; i <= int(ws.MaxRow); i++ {
		row := ws.Row(i)
		if row == nil {
			records = append(records, nil)
			continue
		}
		record := make([]string, row.LastCol())
		for c := row.FirstCol(); c < row.LastCol(); c++ {
			record[c] = row.Col(c)
		}
		records = append(records, record)
	}
	return fromRecords(records), nil
}

func readParquet(path string) (*Table, error) {
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, fmt.Errorf("open table %s: %w", path, err)
	}
	defer fr.Close()

	pr, err := reader.NewParquetColumnReader(fr, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet column reader: %w", err)
	}
	defer pr.ReadStop()

	// Имена схемы переименованы ридером, исходные хранятся в Infos
	var columns []string
	for i, el := range pr.SchemaHandler.SchemaElements {
		if i == 0 || el.GetNumChildren() > 0 {
			continue
		}
		columns = append(columns, pr.SchemaHandler.Infos[i].ExName)
	}

	n := pr.GetNumRows()
	rows := make([][]string, n)
	for i := range rows {
		rows[i] = make([]string, len(columns))
	}

	for c := range columns {
		values, _, _, err := pr.ReadColumnByIndex(int64(c), n)
		if err != nil {
			return nil, fmt.Errorf("failed to read column %d: %w", c, err)
		}
		for i := 0; i < len(values) && i < len(rows); i++ {
			rows[i][c] = cell(values[i])
		}
	}

	return &Table{Columns: columns, Rows: rows}, nil
}

func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}

func fromRecords(records [][]string) *Table {
	if len(records) == 0 {
		return NewTable(nil, nil)
	}
	return NewTable(records[0], records[1:])
}
