package decoder

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
)

// TomlDecoderOptions TOML 解码器配置
type TomlDecoderOptions struct {
	// Indent TOML缩进字符串，用于格式化输出
	Indent string `cfg:"indent"`
}

// TomlDecoder TOML格式编解码器
// 支持标准TOML格式，包含注释支持
type TomlDecoder struct {
	indent string
}

// NewTomlDecoder 创建新的TOML解码器
func NewTomlDecoder() *TomlDecoder {
	return &TomlDecoder{
		indent: "  ",
	}
}

// NewTomlDecoderWithOptions 使用选项创建TOML解码器
func NewTomlDecoderWithOptions(options *TomlDecoderOptions) *TomlDecoder {
	if options == nil || options.Indent == "" {
		return NewTomlDecoder()
	}
	return &TomlDecoder{
		indent: options.Indent,
	}
}

// Decode 将TOML数据绑定到配置对象
func (t *TomlDecoder) Decode(data []byte, v any) error {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode TOML: %w", err)
	}

	return Bind(raw, v)
}

// Encode 将配置对象编码为TOML数据
func (t *TomlDecoder) Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	encoder.Indent = t.indent

	if err := encoder.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode TOML: %w", err)
	}

	return buf.Bytes(), nil
}
