package uid

import (
	"github.com/hatlonely/ormx/ref"
	"github.com/hatlonely/ormx/uid/intgen"
	"github.com/hatlonely/ormx/uid/strgen"
)

var defaultStrGenerator strgen.StrGenerator = strgen.NewTimeUUIDGenerator()
var defaultIntGenerator intgen.IntGenerator = intgen.NewTimestampSeqGenerator()

// NextID 生成进程内唯一的时间有序字符串ID
// 常用作字符串主键的默认值工厂
func NextID() string {
	return defaultStrGenerator.Generate()
}

// NextInt 生成进程内唯一的64位整数ID
func NextInt() int64 {
	return defaultIntGenerator.Generate()
}

// NewIntGenerator 创建默认配置的整数生成器
func NewIntGenerator() intgen.IntGenerator {
	return intgen.NewTimestampSeqGenerator()
}

// NewStrGenerator 创建默认配置的字符串生成器
func NewStrGenerator() strgen.StrGenerator {
	return strgen.NewUUIDGeneratorWithOptions(&strgen.UUIDGeneratorOptions{
		Version:     "v7",
		WithHyphens: true,
	})
}

// NewIntGeneratorWithOptions 创建整数生成器
func NewIntGeneratorWithOptions(options *ref.TypeOptions) (intgen.IntGenerator, error) {
	return intgen.NewIntGeneratorWithOptions(options)
}

// NewStrGeneratorWithOptions 创建字符串生成器
func NewStrGeneratorWithOptions(options *ref.TypeOptions) (strgen.StrGenerator, error) {
	return strgen.NewStrGeneratorWithOptions(options)
}
