package decoder

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// YamlDecoderOptions YAML 解码器配置
type YamlDecoderOptions struct {
	// Indent YAML缩进空格数，默认为2
	Indent int `cfg:"indent" def:"2"`
}

// YamlDecoder YAML格式编解码器
// 支持标准YAML格式，自带注释支持
type YamlDecoder struct {
	indent int
}

// NewYamlDecoder 创建新的YAML解码器
func NewYamlDecoder() *YamlDecoder {
	return &YamlDecoder{
		indent: 2,
	}
}

// NewYamlDecoderWithOptions 使用选项创建YAML解码器
func NewYamlDecoderWithOptions(options *YamlDecoderOptions) *YamlDecoder {
	if options == nil || options.Indent <= 0 {
		return NewYamlDecoder()
	}
	return &YamlDecoder{
		indent: options.Indent,
	}
}

// Decode 将YAML数据绑定到配置对象
func (y *YamlDecoder) Decode(data []byte, v any) error {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode YAML: %w", err)
	}

	return Bind(raw, v)
}

// Encode 将配置对象编码为YAML数据
func (y *YamlDecoder) Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(y.indent)

	if err := encoder.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to close YAML encoder: %w", err)
	}

	return buf.Bytes(), nil
}
