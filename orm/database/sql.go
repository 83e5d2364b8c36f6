package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/hatlonely/ormx/cfg"
	"github.com/hatlonely/ormx/log"
	"github.com/hatlonely/ormx/log/logger"
	"github.com/hatlonely/ormx/ref"
)

type SQLOptions struct {
	Driver   string `cfg:"driver" def:"mysql"`
	DSN      string `cfg:"dsn"`
	Host     string `cfg:"host" def:"localhost"`
	Port     string `cfg:"port" def:"3306"`
	Database string `cfg:"database"`
	Username string `cfg:"username"`
	Password string `cfg:"password"`
	Charset  string `cfg:"charset" def:"utf8"`

	// AutoCommit 为 false 时每条写语句包在显式事务中执行
	AutoCommit *bool `cfg:"autoCommit" def:"true"`

	// 连接池大小，MinSize 是保留的空闲连接数，MaxSize 是最大连接数
	MinSize int `cfg:"minSize" def:"1" validate:"min=0"`
	MaxSize int `cfg:"maxSize" def:"10" validate:"min=1"`

	Logger *ref.TypeOptions `cfg:"logger"`
}

// SQL 基于 database/sql 连接池的执行网关
type SQL struct {
	db         *sql.DB
	driver     string
	autoCommit bool
	logger     logger.Logger
}

// NewSQLWithOptions 创建连接池并校验连通性
func NewSQLWithOptions(options *SQLOptions) (*SQL, error) {
	if options == nil {
		options = &SQLOptions{}
	}
	if err := cfg.SetDefaults(options); err != nil {
		return nil, errors.WithMessage(err, "set defaults failed")
	}
	if err := cfg.ValidateStruct(options); err != nil {
		return nil, errors.WithMessage(err, "validate options failed")
	}

	dsn := options.DSN
	if dsn == "" {
		switch options.Driver {
		case "mysql":
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
				options.Username, options.Password, options.Host, options.Port, options.Database, options.Charset)
		case "sqlite3":
			dsn = options.Database
		default:
			return nil, errors.WithMessagef(ErrUnsupportedDriver, "driver [%s]", options.Driver)
		}
	}

	db, err := sql.Open(options.Driver, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "sql.Open failed")
	}

	db.SetMaxOpenConns(options.MaxSize)
	db.SetMaxIdleConns(options.MinSize)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ping database failed")
	}

	l, err := log.NewLoggerWithOptions(options.Logger)
	if err != nil {
		db.Close()
		return nil, errors.WithMessage(err, "create logger failed")
	}

	l.Info("create database connection pool",
		"driver", options.Driver, "host", options.Host, "port", options.Port, "database", options.Database)

	return &SQL{
		db:         db,
		driver:     options.Driver,
		autoCommit: options.AutoCommit == nil || *options.AutoCommit,
		logger:     l,
	}, nil
}

// Select 执行查询语句
//
// 每条语句连同绑定参数记入日志，size > 0 时最多读取 size 行
func (s *SQL) Select(ctx context.Context, query string, args []any, size int) ([]Row, error) {
	query = formatSQL(s.driver, query)
	s.logger.InfoContext(ctx, "SQL", "query", query, "args", args)

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "acquire connection failed")
	}
	defer conn.Close()

	result, err := selectRows(ctx, conn, query, args, size)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "rows returned", "count", len(result))
	return result, nil
}

// Execute 执行写语句，返回受影响的行数
//
// 自动提交模式下直接执行；否则包在显式事务中，失败时回滚并原样返回错误
func (s *SQL) Execute(ctx context.Context, query string, args []any) (int64, error) {
	query = formatSQL(s.driver, query)
	s.logger.InfoContext(ctx, "SQL", "query", query, "args", args)

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "acquire connection failed")
	}
	defer conn.Close()

	if s.autoCommit {
		result, err := conn.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, err
		}
		return result.RowsAffected()
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "begin transaction failed")
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		tx.Rollback()
		return 0, err
	}

	// 受影响行数要在提交前取出
	affected, err := result.RowsAffected()
	if err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "commit failed")
	}
	return affected, nil
}

// BeginTx 开启显式事务，事务独占一个连接直到提交或回滚
func (s *SQL) BeginTx(ctx context.Context) (*SQLTx, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "acquire connection failed")
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "begin transaction failed")
	}

	return &SQLTx{conn: conn, tx: tx, driver: s.driver, logger: s.logger}, nil
}

// WithTx 在事务中执行 fn，fn 返回错误或发生 panic 时回滚，否则提交
func (s *SQL) WithTx(ctx context.Context, fn func(tx *SQLTx) error) error {
	tx, err := s.BeginTx(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return errors.Wrapf(err, "rollback failed: %v", rollbackErr)
		}
		return err
	}

	return tx.Commit()
}

// Logger 返回网关使用的日志器
func (s *SQL) Logger() logger.Logger {
	return s.logger
}

// Close 关闭连接池
func (s *SQL) Close() error {
	return s.db.Close()
}

// SQLTx 显式事务，同样实现 Database 接口
type SQLTx struct {
	conn     *sql.Conn
	tx       *sql.Tx
	driver   string
	logger   logger.Logger
	finished bool
}

// Select 在事务中执行查询语句
func (t *SQLTx) Select(ctx context.Context, query string, args []any, size int) ([]Row, error) {
	query = formatSQL(t.driver, query)
	t.logger.InfoContext(ctx, "SQL", "query", query, "args", args)

	result, err := selectRows(ctx, t.tx, query, args, size)
	if err != nil {
		return nil, err
	}

	t.logger.InfoContext(ctx, "rows returned", "count", len(result))
	return result, nil
}

// Execute 在事务中执行写语句，提交前行数都对本事务可见
func (t *SQLTx) Execute(ctx context.Context, query string, args []any) (int64, error) {
	query = formatSQL(t.driver, query)
	t.logger.InfoContext(ctx, "SQL", "query", query, "args", args)

	result, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Commit 提交事务并释放连接
func (t *SQLTx) Commit() error {
	if t.finished {
		return sql.ErrTxDone
	}
	t.finished = true
	defer t.conn.Close()
	return t.tx.Commit()
}

// Rollback 回滚事务并释放连接
func (t *SQLTx) Rollback() error {
	if t.finished {
		return sql.ErrTxDone
	}
	t.finished = true
	defer t.conn.Close()
	return t.tx.Rollback()
}

// Logger 返回事务使用的日志器
func (t *SQLTx) Logger() logger.Logger {
	return t.logger
}

// Close 释放事务持有的连接，未提交的事务会被回滚
func (t *SQLTx) Close() error {
	if t.finished {
		return nil
	}
	return t.Rollback()
}

// executor 抽象 *sql.Conn 和 *sql.Tx 的共同查询能力
type executor interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func selectRows(ctx context.Context, ex executor, query string, args []any, size int) ([]Row, error) {
	rows, err := ex.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Row
	for rows.Next() {
		if size > 0 && len(result) >= size {
			break
		}
		row, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanRow(rows *sql.Rows) (Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return Row{}, errors.Wrap(err, "get columns failed")
	}

	values := make([]any, len(columns))
	valuePtrs := make([]any, len(columns))
	for i := range values {
		valuePtrs[i] = &values[i]
	}
	if err := rows.Scan(valuePtrs...); err != nil {
		return Row{}, errors.Wrap(err, "scan row failed")
	}

	data := make(map[string]any, len(columns))
	for i, column := range columns {
		value := values[i]
		// mysql 驱动把字符列扫成 []byte，统一转成 string
		if b, ok := value.([]byte); ok {
			value = string(b)
		}
		data[column] = value
	}
	return NewRow(columns, data), nil
}

// formatSQL postgres 使用 $n 占位符，其他驱动保持 ? 不变
func formatSQL(driver string, query string) string {
	if driver == "postgres" {
		n := 1
		for strings.Contains(query, "?") {
			query = strings.Replace(query, "?", fmt.Sprintf("$%d", n), 1)
			n++
		}
	}
	return query
}
