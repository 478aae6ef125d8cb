package sheet

import "fmt"

// ErrUnsupportedFormat возвращается для расширений, которые ReadFile не умеет читать.
//
// Пример использования:
//   if errors.Is(err, sheet.ErrUnsupportedFormat) {
//       utils.Warn("table skipped", "path", path)
//   }
var ErrUnsupportedFormat = fmt.Errorf("unsupported table format")

// ErrColumnNotFound возвращается когда в таблице нет запрошенной колонки.
var ErrColumnNotFound = fmt.Errorf("column not found")

// UnsupportedFormatError — ошибка с контекстом файла.
type UnsupportedFormatError struct {
	Path string
	Ext  string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported table format %q: %s", e.Ext, e.Path)
}

// Is проверяет что ошибка является ErrUnsupportedFormat.
func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// ColumnNotFoundError — ошибка с контекстом колонки.
//
// Available содержит колонки, которые в таблице есть.
type ColumnNotFoundError struct {
	Column    string
	Available []string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column not found: %q (available: %v)", e.Column, e.Available)
}

// Is проверяет что ошибка является ErrColumnNotFound.
func (e *ColumnNotFoundError) Is(target error) bool {
	return target == ErrColumnNotFound
}
