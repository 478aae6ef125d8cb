package transform

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ilkoid/poncho-dataset/pkg/backend"
	"github.com/ilkoid/poncho-dataset/pkg/s3storage"
)

// Имена встроенных преобразований.
const (
	NameCopy     = "copy"
	NameResize   = "resize"
	NameS3Upload = "s3-upload"
)

// Registry — потокобезопасное хранилище именованных преобразований.
type Registry struct {
	mu         sync.RWMutex
	transforms map[string]FileTransform
}

// NewRegistry создает новый пустой реестр.
func NewRegistry() *Registry {
	return &Registry{
		transforms: make(map[string]FileTransform),
	}
}

// Builtins создает реестр со встроенными преобразованиями.
// s3-upload регистрируется только при переданном клиенте.
func Builtins(caps backend.Capabilities, client s3storage.ClientInterface, prefix, base string) *Registry {
	r := NewRegistry()
	_ = r.Register(NameCopy, Copy{})
	_ = r.Register(NameResize, NewResize(caps))
	if client != nil {
		_ = r.Register(NameS3Upload, &Upload{Client: client, Prefix: prefix, Base: base})
	}
	return r
}

// Register добавляет преобразование под именем name.
func (r *Registry) Register(name string, t FileTransform) error {
	if name == "" {
		return fmt.Errorf("transform name cannot be empty")
	}
	if t == nil {
		return fmt.Errorf("transform '%s' is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.transforms[name] = t
	return nil
}

// Get ищет преобразование по имени.
func (r *Registry) Get(name string) (FileTransform, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.transforms[name]
	if !ok {
		return nil, fmt.Errorf("transform '%s' not found", name)
	}
	return t, nil
}

// Names возвращает отсортированный список зарегистрированных имён.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.transforms))
	for name := range r.transforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
