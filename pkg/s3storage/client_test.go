package s3storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilkoid/poncho-dataset/pkg/config"
)

func TestNormalizePrefix(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"datasets", "datasets/"},
		{"datasets/", "datasets/"},
		{"/datasets/cats", "datasets/cats/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePrefix(tt.in), tt.in)
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "prefix/train/cat/a.jpg", Key("prefix/", "train/cat", "a.jpg"))
	assert.Equal(t, "a.jpg", Key("", ".", "a.jpg"))
	assert.Equal(t, "x/y", Key("/x/", "/y/"))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/jpeg", ContentType("a.JPG"))
	assert.Equal(t, "image/png", ContentType("dir/b.png"))
	assert.Equal(t, "application/octet-stream", ContentType("c.bin"))
}

func TestNew_RequiresEndpointAndBucket(t *testing.T) {
	_, err := New(config.S3Config{Endpoint: "localhost:9000"})
	require.Error(t, err)
}
