package database

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hatlonely/ormx/log"
	"github.com/hatlonely/ormx/log/logger"
	"github.com/hatlonely/ormx/ref"
)

type ObservableDatabaseOptions struct {
	// Database 被包装的底层执行网关配置
	Database *ref.TypeOptions `cfg:"database" validate:"required"`

	// Logger 日志记录器配置
	Logger *ref.TypeOptions `cfg:"logger"`

	// EnableMetrics 是否启用指标收集
	EnableMetrics bool `cfg:"enableMetrics" def:"true"`

	// EnableLogging 是否启用日志记录
	EnableLogging bool `cfg:"enableLogging" def:"true"`

	// EnableTracing 是否启用分布式追踪
	EnableTracing bool `cfg:"enableTracing" def:"false"`

	// Name 组件名称标识，用于所有观测维度
	// - Metrics: 作为指标名前缀
	// - Logging: 作为 component 字段值
	// - Tracing: 作为 span 的 component 属性
	Name string `cfg:"name" def:"database"`
}

// ObservableMetrics 封装 prometheus 指标
type ObservableMetrics struct {
	operationCounter  *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	activeOperations  *prometheus.GaugeVec
	resultRows        *prometheus.HistogramVec
}

// NewObservableMetrics 创建指标收集器
func NewObservableMetrics(name string) *ObservableMetrics {
	metrics := &ObservableMetrics{
		operationCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: name + "_operations_total",
				Help: "Total number of database operations",
			},
			[]string{"operation", "status"},
		),
		operationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    name + "_operation_duration_seconds",
				Help:    "Duration of database operations in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
			[]string{"operation"},
		),
		activeOperations: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: name + "_active_operations",
				Help: "Number of active database operations",
			},
			[]string{"operation"},
		),
		resultRows: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    name + "_result_rows",
				Help:    "Number of rows returned or affected per operation",
				Buckets: []float64{1, 5, 10, 50, 100, 500, 1000},
			},
			[]string{"operation"},
		),
	}

	// 注册到默认 prometheus registry
	prometheus.MustRegister(
		metrics.operationCounter,
		metrics.operationDuration,
		metrics.activeOperations,
		metrics.resultRows,
	)

	return metrics
}

// ObservableDatabase 装饰器，为任何 Database 添加观测能力
type ObservableDatabase struct {
	database Database

	logger        logger.Logger
	metrics       *ObservableMetrics
	tracer        trace.Tracer
	name          string
	enableMetrics bool
	enableLogging bool
	enableTracing bool
}

func NewObservableDatabaseWithOptions(options *ObservableDatabaseOptions) (*ObservableDatabase, error) {
	if options == nil {
		return nil, errors.New("options is nil")
	}
	if options.Database == nil || options.Database.Type == "" {
		return nil, errors.New("database options required")
	}

	// 创建底层 database
	database, err := NewDatabaseWithOptions(options.Database)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create underlying database")
	}

	obs := &ObservableDatabase{
		database:      database,
		name:          options.Name,
		enableMetrics: options.EnableMetrics,
		enableLogging: options.EnableLogging,
		enableTracing: options.EnableTracing,
	}

	// 创建 logger（可选）
	if options.EnableLogging && options.Logger != nil {
		l, err := log.NewLoggerWithOptions(options.Logger)
		if err != nil {
			return nil, errors.WithMessage(err, "failed to create logger")
		}
		obs.logger = l.WithGroup("observableDatabase")
	}

	// 创建 metrics（可选）
	if options.EnableMetrics {
		obs.metrics = NewObservableMetrics(options.Name)
	}

	// 创建 tracer（可选）
	if options.EnableTracing {
		obs.tracer = otel.Tracer(fmt.Sprintf("database.%s", options.Name))
	}

	return obs, nil
}

// observeOperation 统一的操作观测逻辑
func (obs *ObservableDatabase) observeOperation(ctx context.Context, operation string, fn func(context.Context) error) error {
	start := time.Now()

	// 创建 tracing span
	var span trace.Span
	if obs.enableTracing && obs.tracer != nil {
		ctx, span = obs.tracer.Start(ctx, fmt.Sprintf("database.%s", operation),
			trace.WithAttributes(
				attribute.String("component", obs.name),
				attribute.String("operation", operation),
			),
		)
		defer span.End()
	}

	// 记录活跃操作数
	if obs.enableMetrics && obs.metrics != nil {
		obs.metrics.activeOperations.WithLabelValues(operation).Inc()
		defer obs.metrics.activeOperations.WithLabelValues(operation).Dec()
	}

	// 执行实际操作
	err := fn(ctx)
	duration := time.Since(start)

	// 更新 tracing span
	if obs.enableTracing && span != nil {
		span.SetAttributes(
			attribute.Int64("duration_ms", duration.Milliseconds()),
		)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			span.RecordError(err)
		} else {
			span.SetStatus(codes.Ok, "")
		}
	}

	// 记录指标
	if obs.enableMetrics && obs.metrics != nil {
		status := "success"
		if err != nil {
			status = "error"
		}
		obs.metrics.operationCounter.WithLabelValues(operation, status).Inc()
		obs.metrics.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	}

	// 记录日志
	if obs.enableLogging && obs.logger != nil {
		if err != nil {
			obs.logger.ErrorContext(ctx, "database operation failed",
				"component", obs.name,
				"operation", operation,
				"duration_ms", duration.Milliseconds(),
				"error", err.Error(),
			)
		} else {
			obs.logger.InfoContext(ctx, "database operation completed",
				"component", obs.name,
				"operation", operation,
				"duration_ms", duration.Milliseconds(),
			)
		}
	}

	return err
}

// observeResultRows 记录单次操作返回或影响的行数
func (obs *ObservableDatabase) observeResultRows(operation string, count int) {
	if obs.enableMetrics && obs.metrics != nil {
		obs.metrics.resultRows.WithLabelValues(operation).Observe(float64(count))
	}
}

func (obs *ObservableDatabase) Select(ctx context.Context, query string, args []any, size int) ([]Row, error) {
	var result []Row
	err := obs.observeOperation(ctx, "select", func(ctx context.Context) error {
		var selectErr error
		result, selectErr = obs.database.Select(ctx, query, args, size)
		return selectErr
	})
	if err == nil {
		obs.observeResultRows("select", len(result))
	}
	return result, err
}

func (obs *ObservableDatabase) Execute(ctx context.Context, query string, args []any) (int64, error) {
	var affected int64
	err := obs.observeOperation(ctx, "execute", func(ctx context.Context) error {
		var execErr error
		affected, execErr = obs.database.Execute(ctx, query, args)
		return execErr
	})
	if err == nil {
		obs.observeResultRows("execute", int(affected))
	}
	return affected, err
}

// Logger 返回底层执行网关的日志器
func (obs *ObservableDatabase) Logger() logger.Logger {
	return obs.database.Logger()
}

func (obs *ObservableDatabase) Close() error {
	return obs.observeOperation(context.Background(), "close", func(ctx context.Context) error {
		return obs.database.Close()
	})
}
