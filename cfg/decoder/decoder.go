package decoder

import (
	"github.com/hatlonely/ormx/ref"
	"github.com/pkg/errors"
)

func init() {
	ref.MustRegisterT[*JsonDecoder](NewJsonDecoderWithOptions)
	ref.MustRegisterT[*YamlDecoder](NewYamlDecoderWithOptions)
	ref.MustRegisterT[*TomlDecoder](NewTomlDecoderWithOptions)
	ref.MustRegisterT[*IniDecoder](NewIniDecoderWithOptions)
}

// Decoder 配置数据编解码器接口
// 负责原始数据和配置对象之间的转换
type Decoder interface {
	// Decode 将原始数据按 cfg tag 绑定到配置对象
	Decode(data []byte, v any) error
	// Encode 将配置对象编码为原始数据
	Encode(v any) (data []byte, err error)
}

func NewDecoderWithOptions(options *ref.TypeOptions) (Decoder, error) {
	decoder, err := ref.New(options.Namespace, options.Type, options.Options)
	if err != nil {
		return nil, errors.WithMessage(err, "ref.New failed")
	}
	if decoder == nil {
		return nil, errors.New("decoder is nil")
	}
	if _, ok := decoder.(Decoder); !ok {
		return nil, errors.New("decoder is not a Decoder")
	}

	return decoder.(Decoder), nil
}
