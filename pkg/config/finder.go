package config

import (
	"os"
	"path/filepath"
)

// PathFinder определяет стратегию поиска config.yaml.
type PathFinder interface {
	FindConfigPath() string
}

// StandalonePathFinder ищет конфиг для CLI утилиты.
//
// Правила:
//  1. Если указан флаг -config — используется он
//  2. config.yaml рядом с бинарником
//  3. config.yaml в текущей директории
//
// Возвращает пустую строку если файл не найден: утилита работает
// на дефолтах и флагах.
type StandalonePathFinder struct {
	ConfigFlag string
}

// FindConfigPath находит путь к config.yaml.
func (f *StandalonePathFinder) FindConfigPath() string {
	if f.ConfigFlag != "" {
		if abs, err := filepath.Abs(f.ConfigFlag); err == nil {
			return abs
		}
		return f.ConfigFlag
	}

	if execPath, err := os.Executable(); err == nil {
		cfgPath := filepath.Join(filepath.Dir(execPath), "config.yaml")
		if _, err := os.Stat(cfgPath); err == nil {
			return cfgPath
		}
	}

	if wd, err := os.Getwd(); err == nil {
		cfgPath := filepath.Join(wd, "config.yaml")
		if _, err := os.Stat(cfgPath); err == nil {
			return cfgPath
		}
	}

	return ""
}

// LoadOrDefault загружает конфиг по найденному пути или возвращает Default().
//
// Явно указанный, но отсутствующий файл — ошибка.
func LoadOrDefault(finder PathFinder) (*AppConfig, string, error) {
	path := finder.FindConfigPath()
	if path == "" {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}
