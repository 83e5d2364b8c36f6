package strgen

import (
	"fmt"
	"time"
)

type TimeUUIDGeneratorOptions struct {
	// 随机部分使用的 UUID 版本，默认 v4
	Version string `cfg:"version" validate:"omitempty,oneof=v1 v4 v6 v7"`
}

// TimeUUIDGenerator 时间戳前缀 + UUID 生成器
// 毫秒时间戳按 15 位补零，字典序即时间序，适合作为字符串主键
type TimeUUIDGenerator struct {
	random *UUIDGenerator
}

func NewTimeUUIDGenerator() *TimeUUIDGenerator {
	return NewTimeUUIDGeneratorWithOptions(nil)
}

func NewTimeUUIDGeneratorWithOptions(options *TimeUUIDGeneratorOptions) *TimeUUIDGenerator {
	if options == nil {
		options = &TimeUUIDGeneratorOptions{}
	}

	return &TimeUUIDGenerator{
		random: NewUUIDGeneratorWithOptions(&UUIDGeneratorOptions{Version: options.Version}),
	}
}

// Generate 生成50字符ID：15位毫秒时间戳 + 32字符十六进制UUID + 3位填充
func (g *TimeUUIDGenerator) Generate() string {
	return fmt.Sprintf("%015d%s000", time.Now().UnixMilli(), g.random.Generate())
}
