package dataset

import (
	"fmt"

	"github.com/ilkoid/poncho-dataset/pkg/sheet"
	"github.com/ilkoid/poncho-dataset/pkg/utils"
)

// Ошибки Handler.
//
// Кроме ErrNotADirectory все ошибки восстановимые: состояние Handler
// после них не меняется, вызывающий код может считать их предупреждениями.

// ErrNotADirectory возвращается из New, если корень датасета не директория.
var ErrNotADirectory = fmt.Errorf("dataset root is not a directory")

// ErrEmptyResult возвращается когда загрузка не дала ни одного файла или метки.
var ErrEmptyResult = fmt.Errorf("nothing loaded")

// ErrNoFiles возвращается когда операции нужны файлы, а они не загружены.
var ErrNoFiles = fmt.Errorf("files not loaded")

// ErrNoLabels возвращается когда операции нужны метки, а они не загружены.
var ErrNoLabels = fmt.Errorf("labels not loaded")

// ErrNoGroups возвращается когда разбиению по группам не хватает групп.
var ErrNoGroups = fmt.Errorf("groups not loaded")

// ErrInvalidFraction возвращается для доли train вне [0, 1].
var ErrInvalidFraction = fmt.Errorf("train fraction must be within [0, 1]")

// ErrUnsafeDestination возвращается когда очистка директории назначения
// удалила бы корень датасета.
var ErrUnsafeDestination = fmt.Errorf("destination contains the dataset root")

// ErrColumnNotFound — колонки нет в таблице.
var ErrColumnNotFound = sheet.ErrColumnNotFound

// ErrUnsupportedFormat — расширение таблицы не поддерживается.
var ErrUnsupportedFormat = sheet.ErrUnsupportedFormat

// warn пишет предупреждение и возвращает err.
func warn(err error, msg string, keyvals ...any) error {
	utils.Warn(msg, append(keyvals, "error", err)...)
	return err
}
