package log_test

import (
	"os"

	"github.com/hatlonely/ormx/log"
	"github.com/hatlonely/ormx/log/logger"
	"github.com/hatlonely/ormx/log/writer"
	"github.com/hatlonely/ormx/ref"
)

func ExampleDefault() {
	l := log.Default()

	l.Info("服务启动", "port", 8080)
	l.Warn("连接重试", "attempt", 2)

	// 带字段的日志器
	requestLogger := l.With("requestId", "12345")
	requestLogger.Info("处理请求")

	// 分组日志
	dbLogger := l.WithGroup("database")
	dbLogger.Info("连接成功", "host", "localhost", "port", 3306)
}

func ExampleNewLoggerWithOptions() {
	// 控制台输出的日志配置，和配置文件里的 logger 段一一对应
	l, err := log.NewLoggerWithOptions(&ref.TypeOptions{
		Namespace: "github.com/hatlonely/ormx/log/logger",
		Type:      "SLog",
		Options: &logger.SLogOptions{
			Level:      "debug",
			Format:     "text",
			TimeFormat: "2006-01-02 15:04:05",
			Fields: map[string]any{
				"service": "example-service",
			},
			Output: &ref.TypeOptions{
				Namespace: "github.com/hatlonely/ormx/log/writer",
				Type:      "ConsoleWriter",
				Options: &writer.ConsoleWriterOptions{
					Color:  true,
					Target: "stdout",
				},
			},
		},
	})
	if err != nil {
		panic(err)
	}

	l.Debug("这是一条调试日志", "key", "value")
	l.Info("这是一条信息日志", "count", 42)
}

func ExampleNewLoggerWithOptions_file() {
	os.MkdirAll("./logs", 0755)
	defer os.RemoveAll("./logs")

	// 文件输出，超过大小上限按序号轮转
	l, err := log.NewLoggerWithOptions(&ref.TypeOptions{
		Namespace: "github.com/hatlonely/ormx/log/logger",
		Type:      "SLog",
		Options: &logger.SLogOptions{
			Level:  "info",
			Format: "json",
			Output: &ref.TypeOptions{
				Namespace: "github.com/hatlonely/ormx/log/writer",
				Type:      "FileWriter",
				Options: &writer.FileWriterOptions{
					Path:       "./logs/app.log",
					MaxSize:    100,
					MaxBackups: 3,
				},
			},
		},
	})
	if err != nil {
		panic(err)
	}

	l.Info("写入文件的日志", "key", "value")
}
