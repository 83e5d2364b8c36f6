package cfg

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/hatlonely/ormx/cfg/decoder"
	"github.com/hatlonely/ormx/cfg/def"
	"github.com/hatlonely/ormx/cfg/validator"
	"github.com/pkg/errors"
)

// Load 从配置文件加载选项
// 按扩展名选择解码器，解码后填充 def tag 默认值并校验 validate tag
func Load(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read config file %s failed", path)
	}

	dec, err := NewDecoderForFile(path)
	if err != nil {
		return err
	}

	if err := dec.Decode(data, v); err != nil {
		return errors.WithMessagef(err, "decode config file %s failed", path)
	}
	if err := SetDefaults(v); err != nil {
		return errors.WithMessage(err, "set defaults failed")
	}
	if err := validator.ValidateStruct(v); err != nil {
		return errors.WithMessage(err, "validate config failed")
	}
	return nil
}

// NewDecoderForFile 根据文件扩展名创建对应格式的解码器
func NewDecoderForFile(path string) (decoder.Decoder, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".json5":
		return decoder.NewJsonDecoder(), nil
	case ".yaml", ".yml":
		return decoder.NewYamlDecoder(), nil
	case ".toml":
		return decoder.NewTomlDecoder(), nil
	case ".ini":
		return decoder.NewIniDecoder(), nil
	}
	return nil, errors.Errorf("unsupported config file extension %q", filepath.Ext(path))
}

// SetDefaults 填充结构体上的 def tag 默认值
func SetDefaults(v any) error {
	return def.SetDefaults(v)
}

// ValidateStruct 校验结构体上的 validate tag
func ValidateStruct(v any) error {
	return validator.ValidateStruct(v)
}
