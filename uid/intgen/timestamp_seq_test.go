package intgen

import (
	"sync"
	"testing"
)

func TestTimestampSeqGenerator_Generate(t *testing.T) {
	gen := NewTimestampSeqGenerator()

	id1 := gen.Generate()
	id2 := gen.Generate()

	if id1 >= id2 {
		t.Errorf("ID应该递增，但得到 id1=%d, id2=%d", id1, id2)
	}

	// 验证ID结构
	timestamp := id1 >> sequenceBits
	sequence := id1 & maxSequence

	if timestamp <= 0 {
		t.Errorf("时间戳应该大于0，但得到 %d", timestamp)
	}

	if sequence < 0 || sequence > maxSequence {
		t.Errorf("序列号应该在0-%d范围内，但得到 %d", maxSequence, sequence)
	}
}

func TestNextState(t *testing.T) {
	base := int64(1700000000000)

	// 同一毫秒内序列号递增
	state := nextState(base<<sequenceBits|5, func() int64 { return base })
	if state != base<<sequenceBits|6 {
		t.Errorf("同一毫秒内序列号应该递增，但得到 %d", state&maxSequence)
	}

	// 新的毫秒重置序列号
	state = nextState(base<<sequenceBits|5, func() int64 { return base + 1 })
	if state != (base+1)<<sequenceBits {
		t.Errorf("新的毫秒应该重置序列号，但得到 %d", state&maxSequence)
	}

	// 序列号溢出时自旋等待下一毫秒
	calls := 0
	clock := func() int64 {
		calls++
		if calls <= 2 {
			return base
		}
		return base + 1
	}
	state = nextState(base<<sequenceBits|maxSequence, clock)
	if state != (base+1)<<sequenceBits {
		t.Errorf("溢出后应该推进到下一毫秒，但得到时间戳 %d", state>>sequenceBits)
	}
}

func TestTimestampSeqGenerator_Uniqueness(t *testing.T) {
	gen := NewTimestampSeqGenerator()
	ids := make(map[int64]bool)
	count := 10000

	for i := 0; i < count; i++ {
		id := gen.Generate()
		if ids[id] {
			t.Errorf("生成了重复的ID: %d", id)
		}
		ids[id] = true
	}

	if len(ids) != count {
		t.Errorf("期望生成 %d 个唯一ID，但实际生成了 %d 个", count, len(ids))
	}
}

func TestTimestampSeqGenerator_Concurrent(t *testing.T) {
	gen := NewTimestampSeqGenerator()
	var wg sync.WaitGroup
	var mu sync.Mutex
	ids := make(map[int64]bool)
	goroutines := 100
	idsPerGoroutine := 100

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			localIds := make([]int64, 0, idsPerGoroutine)

			for j := 0; j < idsPerGoroutine; j++ {
				localIds = append(localIds, gen.Generate())
			}

			mu.Lock()
			for _, id := range localIds {
				if ids[id] {
					t.Errorf("并发测试中生成了重复的ID: %d", id)
				}
				ids[id] = true
			}
			mu.Unlock()
		}()
	}

	wg.Wait()

	expectedCount := goroutines * idsPerGoroutine
	if len(ids) != expectedCount {
		t.Errorf("期望生成 %d 个唯一ID，但实际生成了 %d 个", expectedCount, len(ids))
	}
}

func TestTimestampSeqGenerator_Ordering(t *testing.T) {
	gen := NewTimestampSeqGenerator()
	count := 1000
	ids := make([]int64, count)

	for i := 0; i < count; i++ {
		ids[i] = gen.Generate()
	}

	// 单协程下生成的ID整体有序
	for i := 1; i < count; i++ {
		if ids[i] <= ids[i-1] {
			t.Errorf("ID应该递增，但在位置 %d 发现倒序: prev=%d, curr=%d",
				i, ids[i-1], ids[i])
		}
	}
}

func TestTimestampSeqGenerator_Interface(t *testing.T) {
	var _ IntGenerator = &TimestampSeqGenerator{}

	gen := NewTimestampSeqGenerator()
	var iGen IntGenerator = gen

	if id := iGen.Generate(); id <= 0 {
		t.Errorf("通过接口生成的ID应该大于0，但得到 %d", id)
	}
}

func BenchmarkTimestampSeqGenerator_Generate(b *testing.B) {
	gen := NewTimestampSeqGenerator()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		gen.Generate()
	}
}

func BenchmarkTimestampSeqGenerator_GenerateConcurrent(b *testing.B) {
	gen := NewTimestampSeqGenerator()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			gen.Generate()
		}
	})
}
