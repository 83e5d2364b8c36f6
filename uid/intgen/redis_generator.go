package intgen

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisGeneratorOptions struct {
	// Redis地址，默认 "localhost:6379"
	Addr string `cfg:"addr"`
	// 密码
	Password string `cfg:"password"`
	// 数据库编号，默认 0
	DB int `cfg:"db"`
	// 存储序列号的键名前缀，默认 "uid:sequence"
	KeyName string `cfg:"keyName"`
	// 单次操作超时时间，默认 3秒
	Timeout time.Duration `cfg:"timeout"`
}

// RedisGenerator 基于Redis的分布式ID生成器
// 序列号通过 INCR 分配，同一毫秒内多实例也不会重复；
// Redis 不可用时降级为本地时间戳（序列号为0）
type RedisGenerator struct {
	client  *redis.Client
	keyName string
	timeout time.Duration
}

// NewRedisGeneratorWithOptions 创建Redis生成器
func NewRedisGeneratorWithOptions(options *RedisGeneratorOptions) *RedisGenerator {
	if options == nil {
		options = &RedisGeneratorOptions{}
	}
	if options.Addr == "" {
		options.Addr = "localhost:6379"
	}
	if options.KeyName == "" {
		options.KeyName = "uid:sequence"
	}
	if options.Timeout == 0 {
		options.Timeout = 3 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:     options.Addr,
		Password: options.Password,
		DB:       options.DB,
	})

	return &RedisGenerator{
		client:  client,
		keyName: options.KeyName,
		timeout: options.Timeout,
	}
}

// Generate 生成ID：高52位时间戳(毫秒) + 低12位序列号
func (g *RedisGenerator) Generate() int64 {
	ctx, cancel := context.WithTimeout(context.Background(), g.timeout)
	defer cancel()

	timestamp := time.Now().UnixMilli()

	// 每毫秒一个键，INCR 原子分配序列号
	key := g.keyName + ":" + formatTimestamp(timestamp)

	sequence, err := g.client.Incr(ctx, key).Result()
	if err != nil {
		// Redis 不可用，降级为本地时间戳
		return timestamp << sequenceBits
	}

	// 键很快过期，避免在Redis中积累
	g.client.Expire(ctx, key, 2*time.Second)

	seq := (sequence - 1) & maxSequence

	// 序列号溢出，等待下一毫秒重新分配
	if seq == 0 && sequence > 1 {
		time.Sleep(time.Millisecond)
		return g.Generate()
	}

	return (timestamp << sequenceBits) | seq
}

// Close 关闭Redis连接
func (g *RedisGenerator) Close() error {
	return g.client.Close()
}

// formatTimestamp 毫秒时间戳格式化为键后缀
func formatTimestamp(timestamp int64) string {
	return time.Unix(0, timestamp*int64(time.Millisecond)).Format("20060102150405.000")
}
