package decoder

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type yamlTestOptions struct {
	Driver string `cfg:"driver"`
	Pool   struct {
		MinSize int `cfg:"minSize"`
		MaxSize int `cfg:"maxSize"`
	} `cfg:"pool"`
	Hosts []string `cfg:"hosts"`
}

func TestYamlDecoderDecode(t *testing.T) {
	data := []byte(`
# 注释
driver: mysql
pool:
  minSize: 1
  maxSize: 10
hosts:
  - primary
  - replica
`)

	var options yamlTestOptions
	err := NewYamlDecoder().Decode(data, &options)
	assert.NoError(t, err)

	assert.Equal(t, "mysql", options.Driver)
	assert.Equal(t, 1, options.Pool.MinSize)
	assert.Equal(t, 10, options.Pool.MaxSize)
	assert.Equal(t, []string{"primary", "replica"}, options.Hosts)
}

func TestYamlDecoderInvalidInput(t *testing.T) {
	var options yamlTestOptions
	err := NewYamlDecoder().Decode([]byte("driver: [unbalanced"), &options)
	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "failed to decode YAML"))
}

func TestYamlDecoderEncode(t *testing.T) {
	options := map[string]any{
		"driver": "sqlite3",
		"pool": map[string]any{
			"maxSize": 10,
		},
	}

	data, err := NewYamlDecoder().Encode(options)
	assert.NoError(t, err)
	assert.Contains(t, string(data), "driver: sqlite3")
	assert.Contains(t, string(data), "maxSize: 10")

	// 编码结果可以再次解码
	var decoded map[string]any
	err = NewYamlDecoder().Decode(data, &decoded)
	assert.NoError(t, err)
	assert.Equal(t, "sqlite3", decoded["driver"])
}

func TestYamlDecoderIndent(t *testing.T) {
	options := map[string]any{
		"pool": map[string]any{
			"maxSize": 10,
		},
	}

	data, err := NewYamlDecoderWithOptions(&YamlDecoderOptions{Indent: 4}).Encode(options)
	assert.NoError(t, err)
	assert.Contains(t, string(data), "    maxSize: 10")
}
