package database

import (
	"context"

	"github.com/pkg/errors"

	"github.com/hatlonely/ormx/log/logger"
	"github.com/hatlonely/ormx/ref"
)

var ErrUnsupportedDriver = errors.New("unsupported driver")

func init() {
	ref.MustRegisterT[*SQL](NewSQLWithOptions)
	ref.MustRegisterT[*ObservableDatabase](NewObservableDatabaseWithOptions)
}

// Database 数据库执行网关，屏蔽连接获取、语句日志和事务边界
//
// Select 和 Execute 的 query 使用 `?` 占位符，postgres 驱动会在执行前
// 自动改写为 `$n` 形式
type Database interface {
	// Select 执行查询语句，size > 0 时最多返回 size 行，size <= 0 返回全部
	Select(ctx context.Context, query string, args []any, size int) ([]Row, error)
	// Execute 执行写语句，返回受影响的行数
	Execute(ctx context.Context, query string, args []any) (int64, error)
	// Logger 返回网关使用的日志器，上层模块复用它输出领域日志
	Logger() logger.Logger
	Close() error
}

// NewDatabaseWithOptions 根据类型配置创建数据库执行网关
func NewDatabaseWithOptions(options *ref.TypeOptions) (Database, error) {
	database, err := ref.New(options.Namespace, options.Type, options.Options)
	if err != nil {
		return nil, errors.WithMessage(err, "ref.New failed")
	}

	if database == nil {
		return nil, errors.New("database is nil")
	}

	db, ok := database.(Database)
	if !ok {
		return nil, errors.Errorf("database type [%s] does not implement Database interface", options.Type)
	}

	return db, nil
}
