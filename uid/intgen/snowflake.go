package intgen

import (
	"net"
	"sync/atomic"
	"time"
)

const (
	sequenceBits  = 12
	machineIDBits = 10
	timestampBits = 41

	maxSequence  = (1 << sequenceBits) - 1  // 4095
	maxMachineID = (1 << machineIDBits) - 1 // 1023

	machineIDShift = sequenceBits
	timestampShift = sequenceBits + machineIDBits
)

type SnowflakeGeneratorOptions struct {
	// 机器ID，不设置时自动从本机IP地址推导
	MachineID *int64 `cfg:"machineID" validate:"omitempty,min=0,max=1023"`
}

// SnowflakeGenerator Snowflake算法生成器
// 64位结构：1位符号位(0) + 41位时间戳 + 10位机器ID + 12位序列号
type SnowflakeGenerator struct {
	state     int64 // 高52位：相对纪元的时间戳，低12位：序列号
	machineID int64
	epoch     int64
}

// NewSnowflakeGeneratorWithOptions 创建Snowflake生成器
func NewSnowflakeGeneratorWithOptions(options *SnowflakeGeneratorOptions) *SnowflakeGenerator {
	var machineID int64
	if options != nil && options.MachineID != nil {
		machineID = *options.MachineID & maxMachineID
	} else {
		machineID = machineIDFromIP()
	}

	// 固定纪元（2020-01-01 00:00:00 UTC），41位时间戳可用约69年
	epoch := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()

	return &SnowflakeGenerator{
		state:     (time.Now().UnixMilli() - epoch) << sequenceBits,
		machineID: machineID,
		epoch:     epoch,
	}
}

// Generate 生成Snowflake ID
func (g *SnowflakeGenerator) Generate() int64 {
	for {
		oldState := atomic.LoadInt64(&g.state)
		newState := nextState(oldState, g.sinceEpoch)

		if atomic.CompareAndSwapInt64(&g.state, oldState, newState) {
			timestamp := newState >> sequenceBits
			sequence := newState & maxSequence
			return (timestamp << timestampShift) | (g.machineID << machineIDShift) | sequence
		}
		// CAS失败，重试
	}
}

// sinceEpoch 当前时间相对纪元的毫秒数
func (g *SnowflakeGenerator) sinceEpoch() int64 {
	return time.Now().UnixMilli() - g.epoch
}

// machineIDFromIP 取本机第一个非回环IPv4地址的低两个字节作为机器ID
func machineIDFromIP() int64 {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return 0
	}

	for _, addr := range addrs {
		ipnet, ok := addr.(*net.IPNet)
		if !ok || ipnet.IP.IsLoopback() {
			continue
		}
		if ipv4 := ipnet.IP.To4(); ipv4 != nil {
			return (int64(ipv4[2])<<8 | int64(ipv4[3])) & maxMachineID
		}
	}

	return 0
}
