package intgen

import (
	"sync/atomic"
	"time"
)

// TimestampSeqGenerator 时间戳+序列号生成器
// 状态压缩在一个 int64 中无锁更新：高52位毫秒时间戳，低12位序列号
type TimestampSeqGenerator struct {
	state int64
}

// NewTimestampSeqGenerator 创建时间戳+序列号生成器
func NewTimestampSeqGenerator() *TimestampSeqGenerator {
	return &TimestampSeqGenerator{
		state: unixMilli() << sequenceBits,
	}
}

// Generate 生成ID：高52位时间戳(毫秒) + 低12位序列号
func (g *TimestampSeqGenerator) Generate() int64 {
	for {
		oldState := atomic.LoadInt64(&g.state)
		newState := nextState(oldState, unixMilli)

		if atomic.CompareAndSwapInt64(&g.state, oldState, newState) {
			return newState
		}
		// CAS失败说明有并发更新，重试
	}
}

func unixMilli() int64 {
	return time.Now().UnixMilli()
}

// nextState 基于旧状态和时钟推进状态
// 同一毫秒内序列号递增，溢出时自旋等待下一毫秒
func nextState(oldState int64, now func() int64) int64 {
	timestamp := oldState >> sequenceBits
	sequence := oldState & maxSequence

	nowMs := now()
	if nowMs != timestamp {
		// 新的毫秒，序列号重置
		return nowMs << sequenceBits
	}

	sequence = (sequence + 1) & maxSequence
	if sequence == 0 {
		// 序列号溢出，等待下一毫秒
		for nowMs <= timestamp {
			nowMs = now()
		}
		return nowMs << sequenceBits
	}

	return (timestamp << sequenceBits) | sequence
}
