package transform

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilkoid/poncho-dataset/pkg/backend"
	"github.com/ilkoid/poncho-dataset/pkg/s3storage"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestOptions_Getters(t *testing.T) {
	opts := Options{
		"s":      "value",
		"b":      true,
		"bs":     "false",
		"i":      7,
		"f":      float64(12),
		"is":     "42",
		"broken": []int{1},
	}

	assert.Equal(t, "value", opts.String("s", "x"))
	assert.Equal(t, "x", opts.String("missing", "x"))
	assert.Equal(t, "x", opts.String("i", "x"))
	assert.True(t, opts.Bool("b", false))
	assert.False(t, opts.Bool("bs", true))
	assert.True(t, opts.Bool("missing", true))
	assert.Equal(t, 7, opts.Int("i", 0))
	assert.Equal(t, 12, opts.Int("f", 0))
	assert.Equal(t, 42, opts.Int("is", 0))
	assert.Equal(t, 5, opts.Int("broken", 5))

	var nilOpts Options
	assert.Equal(t, 3, nilOpts.Int("width", 3))
}

func TestOptions_WithDoesNotMutate(t *testing.T) {
	base := Options{"a": 1}
	next := base.With("b", 2)

	assert.Len(t, base, 1)
	assert.Equal(t, 2, next.Int("b", 0))
	assert.Equal(t, 1, next.Int("a", 0))
}

func TestFunc_Adapter(t *testing.T) {
	var got string
	f := Func(func(_ context.Context, src, dstDir string, _ Options) error {
		got = src + "->" + dstDir
		return nil
	})
	require.NoError(t, f.Apply(context.Background(), "a", "b", nil))
	assert.Equal(t, "a->b", got)
}

func TestCopy_Basic(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src", "a.txt")
	dst := filepath.Join(dir, "dst")
	writeFile(t, src, "hello")
	require.NoError(t, os.MkdirAll(dst, 0o755))

	require.NoError(t, Copy{}.Apply(context.Background(), src, dst, nil))

	data, err := os.ReadFile(filepath.Join(dst, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestCopy_NewFilename(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	writeFile(t, src, "hello")

	require.NoError(t, Copy{}.Apply(context.Background(), src, dir, Options{OptNewFilename: "b.txt"}))
	assert.FileExists(t, filepath.Join(dir, "b.txt"))
}

func TestCopy_SafeCopy(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	writeFile(t, src, "hello")
	missing := filepath.Join(dir, "nope")

	// По умолчанию safe_copy включен: отсутствующие пути не ошибка
	assert.NoError(t, Copy{}.Apply(context.Background(), src, missing, nil))
	assert.NoError(t, Copy{}.Apply(context.Background(), filepath.Join(dir, "ghost.txt"), dir, nil))

	err := Copy{}.Apply(context.Background(), src, missing, Options{OptSafeCopy: false})
	assert.Error(t, err)
}

func TestCopy_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	writeFile(t, src, "hello")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Copy{}.Apply(ctx, src, dir, Options{OptNewFilename: "b.txt"}), context.Canceled)
}

func TestResize_PNG(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "img.png")
	dst := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(dst, 0o755))
	writePNG(t, src, 40, 20)

	r := NewResize(backend.Select(false, "bilinear"))
	require.NoError(t, r.Apply(context.Background(), src, dst, Options{OptWidth: 10, OptHeight: 8}))

	f, err := os.Open(filepath.Join(dst, "img.png"))
	require.NoError(t, err)
	defer f.Close()
	cfg, format, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 10, cfg.Width)
	assert.Equal(t, 8, cfg.Height)
}

func TestResize_DefaultSize(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "img.png")
	dst := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(dst, 0o755))
	writePNG(t, src, 4, 4)

	require.NoError(t, NewResize(backend.CPU(backend.Interpolation(""))).Apply(context.Background(), src, dst, nil))

	f, err := os.Open(filepath.Join(dst, "img.png"))
	require.NoError(t, err)
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, DefaultSize, cfg.Width)
	assert.Equal(t, DefaultSize, cfg.Height)
}

func TestResize_NotAnImage(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "notes.txt")
	writeFile(t, src, "plain text")

	err := NewResize(backend.Select(false, "")).Apply(context.Background(), src, dir, nil)
	assert.Error(t, err)
}

type fakeS3 struct {
	mu        sync.Mutex
	uploads   map[string]string
	downloads map[string]string
	objects   map[string]string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{
		uploads:   make(map[string]string),
		downloads: make(map[string]string),
		objects:   make(map[string]string),
	}
}

func (f *fakeS3) ListFiles(_ context.Context, prefix string) ([]s3storage.StoredObject, error) {
	return nil, nil
}

func (f *fakeS3) DownloadToFile(_ context.Context, key, localPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.downloads[key] = localPath
	return os.WriteFile(localPath, []byte(f.objects[key]), 0o644)
}

func (f *fakeS3) UploadFile(_ context.Context, key, localPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads[key] = localPath
	return nil
}

func TestUpload_KeyKeepsLayout(t *testing.T) {
	client := newFakeS3()
	u := &Upload{Client: client, Prefix: "datasets/v1", Base: "/data/out"}

	require.NoError(t, u.Apply(context.Background(), "/src/cat1.jpg", "/data/out/train/cat", nil))
	require.NoError(t, u.Apply(context.Background(), "/src/dog1.jpg", "/elsewhere/dog", nil))

	assert.Equal(t, "/src/cat1.jpg", client.uploads["datasets/v1/train/cat/cat1.jpg"])
	assert.Equal(t, "/src/dog1.jpg", client.uploads["datasets/v1/dog/dog1.jpg"])
}

func TestDownload(t *testing.T) {
	dir := t.TempDir()
	client := newFakeS3()
	client.objects["datasets/cat/cat1.jpg"] = "meow"

	d := &Download{Client: client}
	require.NoError(t, d.Apply(context.Background(), "datasets/cat/cat1.jpg", dir, nil))

	data, err := os.ReadFile(filepath.Join(dir, "cat1.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "meow", string(data))
}

func TestRegistry(t *testing.T) {
	r := Builtins(backend.Select(false, ""), nil, "", "")
	assert.Equal(t, []string{NameCopy, NameResize}, r.Names())

	_, err := r.Get(NameS3Upload)
	assert.Error(t, err)

	r = Builtins(backend.Select(false, ""), newFakeS3(), "p", "")
	tr, err := r.Get(NameS3Upload)
	require.NoError(t, err)
	assert.IsType(t, &Upload{}, tr)

	assert.Error(t, r.Register("", Copy{}))
	assert.Error(t, r.Register("nil", nil))
}
