package decoder

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type iniTestOptions struct {
	AppName string `cfg:"app_name"`
	Debug   bool   `cfg:"debug"`
	Mysql   struct {
		Host string `cfg:"host"`
		Port int    `cfg:"port"`
	} `cfg:"mysql"`
	Replicas []string `cfg:"replicas"`
}

func TestIniDecoderDecode(t *testing.T) {
	data := []byte(`
; 注释
app_name = orm
debug = true
replicas = r1,r2,r3

[mysql]
host = localhost
port = 3306
`)

	var options iniTestOptions
	err := NewIniDecoder().Decode(data, &options)
	assert.NoError(t, err)

	assert.Equal(t, "orm", options.AppName)
	assert.Equal(t, true, options.Debug)
	assert.Equal(t, "localhost", options.Mysql.Host)
	assert.Equal(t, 3306, options.Mysql.Port)
	assert.Equal(t, []string{"r1", "r2", "r3"}, options.Replicas)
}

func TestIniDecoderTypeConversion(t *testing.T) {
	decoder := NewIniDecoder()

	assert.Equal(t, true, decoder.parseStringValue("TRUE"))
	assert.Equal(t, false, decoder.parseStringValue("false"))
	assert.Equal(t, int64(42), decoder.parseStringValue("42"))
	assert.Equal(t, 3.14, decoder.parseStringValue("3.14"))
	assert.Equal(t, "plain", decoder.parseStringValue("plain"))
	assert.Equal(t, []any{int64(1), int64(2)}, decoder.parseStringValue("1,2"))

	// 含空格的逗号串不会被当作数组
	assert.Equal(t, "a, b", decoder.parseStringValue("a, b"))
}

func TestIniDecoderShadows(t *testing.T) {
	data := []byte(`
tag = one
tag = two
`)

	var options struct {
		Tag []string `cfg:"tag"`
	}
	err := NewIniDecoder().Decode(data, &options)
	assert.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, options.Tag)
}

func TestIniDecoderInvalidInput(t *testing.T) {
	var options iniTestOptions
	err := NewIniDecoder().Decode([]byte("[unclosed\nkey = value"), &options)
	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "failed to decode INI"))
}

func TestIniDecoderEncode(t *testing.T) {
	options := map[string]any{
		"app_name": "orm",
		"mysql": map[string]any{
			"host": "localhost",
			"port": 3306,
		},
	}

	data, err := NewIniDecoder().Encode(options)
	assert.NoError(t, err)
	assert.Contains(t, string(data), "app_name")
	assert.Contains(t, string(data), "[mysql]")

	// 编码结果可以再次解码
	var decoded iniTestOptions
	err = NewIniDecoder().Decode(data, &decoded)
	assert.NoError(t, err)
	assert.Equal(t, "orm", decoded.AppName)
	assert.Equal(t, "localhost", decoded.Mysql.Host)
}
