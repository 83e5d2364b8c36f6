package writer

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileWriterOptions 文件输出配置
type FileWriterOptions struct {
	// 文件路径
	Path string `cfg:"path" validate:"required"`
	// 单个文件的最大大小（MB），0 表示不轮转
	MaxSize int `cfg:"maxSize"`
	// 轮转后保留的备份数量，0 表示不保留备份
	MaxBackups int `cfg:"maxBackups"`
}

// FileWriter 文件输出器，超过大小上限时按序号轮转备份
type FileWriter struct {
	options *FileWriterOptions
	file    *os.File
	size    int64
	mu      sync.Mutex
}

// NewFileWriterWithOptions 创建文件输出器
func NewFileWriterWithOptions(options *FileWriterOptions) (*FileWriter, error) {
	if options == nil || options.Path == "" {
		return nil, fmt.Errorf("file path is required")
	}

	// 确保目录存在
	dir := filepath.Dir(options.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	file, err := os.OpenFile(options.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", options.Path, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat file %s: %w", options.Path, err)
	}

	return &FileWriter{
		options: options,
		file:    file,
		size:    info.Size(),
	}, nil
}

// Write 实现 io.Writer 接口
func (f *FileWriter) Write(p []byte) (n int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file == nil {
		return 0, fmt.Errorf("file is closed")
	}

	if f.options.MaxSize > 0 && f.size+int64(len(p)) > int64(f.options.MaxSize)*1024*1024 {
		if err := f.rotate(); err != nil {
			return 0, err
		}
	}

	n, err = f.file.Write(p)
	f.size += int64(n)
	return n, err
}

// rotate 关闭当前文件并把备份序号整体后移，之后新建空文件继续写入
func (f *FileWriter) rotate() error {
	if err := f.file.Close(); err != nil {
		f.file = nil
		return fmt.Errorf("failed to close file %s: %w", f.options.Path, err)
	}
	f.file = nil

	if f.options.MaxBackups <= 0 {
		if err := os.Remove(f.options.Path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove file %s: %w", f.options.Path, err)
		}
	} else {
		oldest := fmt.Sprintf("%s.%d", f.options.Path, f.options.MaxBackups)
		if err := os.Remove(oldest); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove backup %s: %w", oldest, err)
		}
		for i := f.options.MaxBackups - 1; i >= 1; i-- {
			src := fmt.Sprintf("%s.%d", f.options.Path, i)
			dst := fmt.Sprintf("%s.%d", f.options.Path, i+1)
			if err := os.Rename(src, dst); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to rename backup %s: %w", src, err)
			}
		}
		if err := os.Rename(f.options.Path, f.options.Path+".1"); err != nil {
			return fmt.Errorf("failed to rename file %s: %w", f.options.Path, err)
		}
	}

	file, err := os.OpenFile(f.options.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", f.options.Path, err)
	}

	f.file = file
	f.size = 0
	return nil
}

// Close 实现 io.Closer 接口
func (f *FileWriter) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file != nil {
		err := f.file.Close()
		f.file = nil
		return err
	}
	return nil
}
