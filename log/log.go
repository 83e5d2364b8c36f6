package log

import (
	"github.com/hatlonely/ormx/log/logger"
	"github.com/hatlonely/ormx/ref"
	"github.com/pkg/errors"
)

var defaultLogger logger.Logger

func init() {
	// 创建默认的SLog实例，向终端输出text格式日志
	slog, err := logger.NewSLogWithOptions(&logger.SLogOptions{
		Level:  "info",
		Format: "text",
	})
	if err != nil {
		panic("failed to initialize default logger: " + err.Error())
	}
	defaultLogger = slog
}

// Default 返回进程级默认日志器
func Default() logger.Logger {
	return defaultLogger
}

// SetDefault 替换进程级默认日志器，传入 nil 时不做任何事
func SetDefault(l logger.Logger) {
	if l != nil {
		defaultLogger = l
	}
}

// NewLoggerWithOptions 根据 ref 配置创建日志器，配置为空时返回默认日志器
func NewLoggerWithOptions(options *ref.TypeOptions) (logger.Logger, error) {
	if options == nil || options.Type == "" {
		return Default(), nil
	}

	obj, err := ref.New(options.Namespace, options.Type, options.Options)
	if err != nil {
		return nil, errors.WithMessage(err, "create logger failed")
	}

	l, ok := obj.(logger.Logger)
	if !ok {
		return nil, errors.New("object does not implement Logger interface")
	}
	return l, nil
}
