// Package utils предоставляет простой логгер для CLI утилит и библиотечного кода.
//
// По умолчанию пишет в stderr только предупреждения и ошибки — это
// диагностический канал, куда библиотека сообщает о no-op ситуациях
// (пустая загрузка, не загружены метки и т.д.).
// InitLogger переключает вывод в .log файл с timestamp в имени.
// Thread-safe через sync.Mutex.
package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	logger      = newLogger(os.Stderr)
	logFile     *os.File
	logMutex    sync.Mutex
	initialized bool
)

func newLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.WarnLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return l
}

// InitLogger создает/открывает .log файл в директории dir.
//
// Имя файла: poncho-dataset-YYYY-MM-DD-HH-MM.log.
// Пустой dir означает текущую директорию.
// debug=true включает уровень DEBUG, иначе INFO.
func InitLogger(dir string, debug bool) error {
	logMutex.Lock()
	defer logMutex.Unlock()

	if initialized {
		return nil
	}

	timestamp := time.Now().Format("2006-01-02-15-04")
	filename := filepath.Join(dir, fmt.Sprintf("poncho-dataset-%s.log", timestamp))

	f, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	logFile = f
	logger.SetOutput(f)
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
	initialized = true

	logger.WithField("file", filename).Info("Logger initialized")
	return nil
}

// SetOutput перенаправляет лог в w и выставляет уровень DEBUG.
//
// Используется в тестах, чтобы перехватить предупреждения.
func SetOutput(w io.Writer) {
	logMutex.Lock()
	defer logMutex.Unlock()

	logger.SetOutput(w)
	logger.SetLevel(logrus.DebugLevel)
}

// Info - информационное сообщение.
func Info(msg string, keyvals ...any) {
	log(logrus.InfoLevel, msg, keyvals...)
}

// Error - сообщение об ошибке.
func Error(msg string, keyvals ...any) {
	log(logrus.ErrorLevel, msg, keyvals...)
}

// Debug - отладочное сообщение.
func Debug(msg string, keyvals ...any) {
	log(logrus.DebugLevel, msg, keyvals...)
}

// Warn - предупреждение.
func Warn(msg string, keyvals ...any) {
	log(logrus.WarnLevel, msg, keyvals...)
}

// log - внутренняя функция записи в лог.
//
// keyvals превращаются в logrus.Fields: key1=value1 key2=value2.
// Непарный последний ключ отбрасывается.
func log(level logrus.Level, msg string, keyvals ...any) {
	logMutex.Lock()
	defer logMutex.Unlock()

	fields := make(logrus.Fields, len(keyvals)/2)
	for i := 0; i+1 < len(keyvals); i += 2 {
		fields[fmt.Sprint(keyvals[i])] = keyvals[i+1]
	}

	logger.WithFields(fields).Log(level, msg)
}

// Close закрывает лог-файл и возвращает вывод в stderr.
//
// Вызывается через defer в main().
func Close() {
	logMutex.Lock()
	defer logMutex.Unlock()

	if logFile != nil {
		if err := logFile.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "[LOGGER WARNING: Close failed: %v]\n", err)
		}
		logFile = nil
	}
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	initialized = false
}
