package dataset

import (
	"encoding/json"
	"fmt"
	"os"
)

// SaveSplit пишет словарь в JSON объект {"файл": "метка"}.
func SaveSplit(path string, s Split) error {
	if s == nil {
		s = Split{}
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal split: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write split %s: %w", path, err)
	}
	return nil
}

// LoadSplit читает словарь, записанный SaveSplit.
// Значения, отличные от строк, — ошибка.
func LoadSplit(path string) (Split, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read split %s: %w", path, err)
	}
	s := Split{}
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse split %s: %w", path, err)
	}
	return s, nil
}

// PartitionPaths возвращает пути <prefix>_train.json и <prefix>_val.json.
func PartitionPaths(prefix string) (string, string) {
	return prefix + "_train.json", prefix + "_val.json"
}

// SavePartition пишет обе части разбиения рядом.
func SavePartition(prefix string, p *Partition) error {
	trainPath, valPath := PartitionPaths(prefix)
	if err := SaveSplit(trainPath, p.Train); err != nil {
		return err
	}
	return SaveSplit(valPath, p.Validation)
}

// LoadPartition читает разбиение, записанное SavePartition.
func LoadPartition(prefix string) (*Partition, error) {
	trainPath, valPath := PartitionPaths(prefix)
	train, err := LoadSplit(trainPath)
	if err != nil {
		return nil, err
	}
	val, err := LoadSplit(valPath)
	if err != nil {
		return nil, err
	}
	return &Partition{Train: train, Validation: val}, nil
}
