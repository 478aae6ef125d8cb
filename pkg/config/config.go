package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// AppConfig — корневая структура конфигурации.
// Она зеркалит структуру config.yaml.
type AppConfig struct {
	Dataset         DatasetConfig    `yaml:"dataset"`
	Tables          TablesConfig     `yaml:"tables"`
	Split           SplitConfig      `yaml:"split"`
	Processing      ProcessingConfig `yaml:"processing"`
	ImageProcessing ImageProcConfig  `yaml:"image_processing"`
	S3              S3Config         `yaml:"s3"`
	App             AppSpecific      `yaml:"app"`
}

// DatasetConfig — где лежат исходные файлы и как их распределять.
type DatasetConfig struct {
	Root        string   `yaml:"root"`         // Абсолютный или относительный путь к данным
	Extensions  []string `yaml:"extensions"`   // Пустой список — любые файлы
	Labeled     bool     `yaml:"labeled"`      // true: одна поддиректория на метку
	AllowedCPUs int      `yaml:"allowed_cpus"` // Максимум одновременно работающих шардов
	Seed        *int64   `yaml:"seed"`         // nil — дефолтный сид 871
}

// TablesConfig — таблицы с метками и группами.
type TablesConfig struct {
	Labels        TableRef `yaml:"labels"`
	Groups        TableRef `yaml:"groups"`
	CluelessWords []string `yaml:"clueless_words"` // Значения, равносильные пустой ячейке
}

// TableRef описывает одну таблицу идентификаторов.
type TableRef struct {
	Path           string `yaml:"path"`
	IDColumn       string `yaml:"id_column"`
	ValueColumn    string `yaml:"value_column"`
	FullMatch      bool   `yaml:"full_match"`
	KeepUnlabeled  bool   `yaml:"keep_unlabeled"` // Только для меток
}

// SplitConfig — параметры разбиения на train/validation.
type SplitConfig struct {
	TrainFraction float64 `yaml:"train_fraction"`
	Balance       bool    `yaml:"balance"`
	IgnoreGroups  bool    `yaml:"ignore_groups"`
	Output        string  `yaml:"output"`    // Префикс JSON файлов: <output>_train.json, <output>_val.json
	TrainDir      string  `yaml:"train_dir"` // Пусто — не материализовать
	ValDir        string  `yaml:"val_dir"`
}

// GetDefaults возвращает дефолтные значения для незаполненных полей.
func (c *SplitConfig) GetDefaults() SplitConfig {
	result := *c

	if result.TrainFraction == 0 {
		result.TrainFraction = 0.7
	}
	if result.Output == "" {
		result.Output = "split"
	}

	return result
}

// ProcessingConfig — настройки пула воркеров и преобразования.
type ProcessingConfig struct {
	Transform string  `yaml:"transform"`  // "copy", "resize", "s3-upload"
	RateLimit float64 `yaml:"rate_limit"` // Файлов в секунду, 0 — без ограничения
	Burst     int     `yaml:"burst"`
	UseGPU    bool    `yaml:"use_gpu"`
	EmptyDir  *bool   `yaml:"empty_dir"` // nil — true
}

// GetDefaults возвращает дефолтные значения для незаполненных полей.
func (c *ProcessingConfig) GetDefaults() ProcessingConfig {
	result := *c

	if result.Transform == "" {
		result.Transform = "copy"
	}
	if result.Burst == 0 {
		result.Burst = 1
	}
	if result.EmptyDir == nil {
		empty := true
		result.EmptyDir = &empty
	}

	return result
}

// ImageProcConfig — настройки обработки изображений.
type ImageProcConfig struct {
	Width         int    `yaml:"width"`
	Height        int    `yaml:"height"`
	Quality       int    `yaml:"quality"`
	Interpolation string `yaml:"interpolation"` // lanczos3, bilinear, bicubic, nearest
}

// GetDefaults возвращает дефолтные значения для незаполненных полей.
func (c *ImageProcConfig) GetDefaults() ImageProcConfig {
	result := *c

	if result.Width == 0 {
		result.Width = 224
	}
	if result.Height == 0 {
		result.Height = 224
	}
	if result.Quality == 0 {
		result.Quality = 90
	}
	if result.Interpolation == "" {
		result.Interpolation = "lanczos3"
	}

	return result
}

// S3Config — настройки объектного хранилища.
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"` // Поддерживает ${VAR}
	SecretKey string `yaml:"secret_key"` // Поддерживает ${VAR}
	UseSSL    bool   `yaml:"use_ssl"`
	Prefix    string `yaml:"prefix"` // Префикс ключей датасета в бакете
}

// Enabled сообщает, настроено ли хранилище.
func (c S3Config) Enabled() bool {
	return c.Endpoint != "" && c.Bucket != ""
}

// AppSpecific — общие настройки приложения.
type AppSpecific struct {
	Debug      bool   `yaml:"debug"`
	LogDir     string `yaml:"log_dir"`     // Пусто — логи в stderr
	TraceDir   string `yaml:"trace_dir"`   // JSON трейсы прогонов, пусто — не писать
	TraceFiles bool   `yaml:"trace_files"` // Трейс каждого файла, не только упавших
}

// Load читает YAML файл, подставляет ENV переменные и возвращает готовую структуру.
func Load(path string) (*AppConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found at: %s", path)
	}

	rawBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(rawBytes)
	if err != nil {
		return nil, err
	}

	// Относительный root считается от директории конфига
	if cfg.Dataset.Root != "" && !filepath.IsAbs(cfg.Dataset.Root) {
		cfg.Dataset.Root = filepath.Join(filepath.Dir(path), cfg.Dataset.Root)
	}

	return cfg, nil
}

// Parse разбирает YAML из памяти с подстановкой ${VAR}.
func Parse(raw []byte) (*AppConfig, error) {
	contentWithEnv := os.ExpandEnv(string(raw))

	var cfg AppConfig
	if err := yaml.Unmarshal([]byte(contentWithEnv), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	cfg.Split = cfg.Split.GetDefaults()
	cfg.Processing = cfg.Processing.GetDefaults()
	cfg.ImageProcessing = cfg.ImageProcessing.GetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Default возвращает конфигурацию без файла: все поля по умолчанию.
func Default() *AppConfig {
	var cfg AppConfig
	cfg.Split = cfg.Split.GetDefaults()
	cfg.Processing = cfg.Processing.GetDefaults()
	cfg.ImageProcessing = cfg.ImageProcessing.GetDefaults()
	return &cfg
}

// Validate проверяет согласованность настроек.
func (c *AppConfig) Validate() error {
	if c.Split.TrainFraction < 0 || c.Split.TrainFraction > 1 {
		return fmt.Errorf("split.train_fraction must be within [0, 1], got %v", c.Split.TrainFraction)
	}
	if c.Dataset.AllowedCPUs < 0 {
		return fmt.Errorf("dataset.allowed_cpus must not be negative")
	}
	if c.Processing.RateLimit < 0 {
		return fmt.Errorf("processing.rate_limit must not be negative")
	}
	switch c.Processing.Transform {
	case "copy", "resize":
	case "s3-upload":
		if !c.S3.Enabled() {
			return fmt.Errorf("processing.transform 's3-upload' requires s3.endpoint and s3.bucket")
		}
	default:
		return fmt.Errorf("unknown processing.transform '%s'", c.Processing.Transform)
	}
	if c.Tables.Labels.Path != "" && (c.Tables.Labels.IDColumn == "" || c.Tables.Labels.ValueColumn == "") {
		return fmt.Errorf("tables.labels requires id_column and value_column")
	}
	if c.Tables.Groups.Path != "" && (c.Tables.Groups.IDColumn == "" || c.Tables.Groups.ValueColumn == "") {
		return fmt.Errorf("tables.groups requires id_column and value_column")
	}
	return nil
}

// Workers возвращает бюджет воркеров (минимум 1).
func (c *AppConfig) Workers() int {
	if c.Dataset.AllowedCPUs < 1 {
		return 1
	}
	return c.Dataset.AllowedCPUs
}

// Seed возвращает сид или дефолтный 871.
func (c *AppConfig) Seed() int64 {
	if c.Dataset.Seed == nil {
		return 871
	}
	return *c.Dataset.Seed
}

// EmptyDir сообщает, нужно ли очищать директорию назначения.
func (c *AppConfig) EmptyDir() bool {
	return c.Processing.EmptyDir == nil || *c.Processing.EmptyDir
}
