// Package orm 把属性到列的映射编译成四条语句模板，并基于模板提供增删改查。
//
// 使用方式：NewSchema 注册映射，orm.New 绑定执行网关得到表句柄，
// 通过句柄创建记录、保存和查询
package orm

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/pkg/errors"

	"github.com/hatlonely/ormx/log/logger"
	"github.com/hatlonely/ormx/orm/database"
)

var (
	ErrMissingPrimaryKey   = errors.New("missing primary key")
	ErrDuplicatePrimaryKey = errors.New("duplicate primary key")
	ErrFieldNotEligible    = errors.New("field not eligible for primary key")
	ErrDuplicateAttribute  = errors.New("duplicate attribute")
	ErrAttributeNotFound   = errors.New("attribute not found")
	ErrInvalidLimit        = errors.New("invalid limit")
)

// Table 一张表的操作句柄，绑定映射和执行网关
type Table struct {
	schema *Schema
	db     database.Database
	logger logger.Logger
}

// New 创建表操作句柄，日志器复用执行网关的
func New(schema *Schema, db database.Database) *Table {
	return &Table{
		schema: schema,
		db:     db,
		logger: db.Logger(),
	}
}

// Schema 表的映射
func (t *Table) Schema() *Schema {
	return t.schema
}

type queryOptions struct {
	where     string
	whereArgs []any
	orderBy   string
	limit     any
}

// QueryOption 查询条件选项
type QueryOption func(*queryOptions)

// WithWhere 设置 where 片段和对应参数，参数用 ? 占位
func WithWhere(cond string, args ...any) QueryOption {
	return func(o *queryOptions) {
		o.where = cond
		o.whereArgs = args
	}
}

// WithOrderBy 设置 order by 片段
func WithOrderBy(expr string) QueryOption {
	return func(o *queryOptions) {
		o.orderBy = expr
	}
}

// WithLimit 限制返回行数，接受整数或 [offset, count] 两元素切片
func WithLimit(limit any) QueryOption {
	return func(o *queryOptions) {
		o.limit = limit
	}
}

// FindAll 按条件查询，返回所有匹配的记录
//
// where 和 orderBy 是拼进语句的 SQL 片段，limit 先校验再查询，
// 形状不合法返回 ErrInvalidLimit
func (t *Table) FindAll(ctx context.Context, opts ...QueryOption) ([]*Record, error) {
	options := &queryOptions{}
	for _, opt := range opts {
		opt(options)
	}

	parts := []string{t.schema.selectSQL}
	args := append([]any{}, options.whereArgs...)
	if options.where != "" {
		parts = append(parts, "where", options.where)
	}
	if options.orderBy != "" {
		parts = append(parts, "order by", options.orderBy)
	}
	if options.limit != nil {
		placeholder, limitArgs, err := buildLimitArgs(options.limit)
		if err != nil {
			return nil, err
		}
		parts = append(parts, "limit", placeholder)
		args = append(args, limitArgs...)
	}

	rows, err := t.db.Select(ctx, strings.Join(parts, " "), args, 0)
	if err != nil {
		return nil, err
	}

	records := make([]*Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, t.newRecordFromRow(row))
	}
	return records, nil
}

// Find 按主键查单条记录，没有命中返回 nil
func (t *Table) Find(ctx context.Context, pk any) (*Record, error) {
	query := fmt.Sprintf("%s where %s = ?", t.schema.selectSQL, t.schema.pkColumn)
	rows, err := t.db.Select(ctx, query, []any{pk}, 1)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return t.newRecordFromRow(rows[0]), nil
}

// FindNumber 查询单个聚合值，比如 count(*)、max(score)，没有结果返回 nil
//
// selectExpr 原样拼进语句，结果列的别名固定为 _num_
func (t *Table) FindNumber(ctx context.Context, selectExpr string, opts ...QueryOption) (any, error) {
	options := &queryOptions{}
	for _, opt := range opts {
		opt(options)
	}

	parts := []string{fmt.Sprintf("select %s _num_ from %s", selectExpr, t.schema.tableIdent)}
	if options.where != "" {
		parts = append(parts, "where", options.where)
	}

	rows, err := t.db.Select(ctx, strings.Join(parts, " "), options.whereArgs, 1)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].Get("_num_"), nil
}

// Count 统计满足条件的行数
func (t *Table) Count(ctx context.Context, opts ...QueryOption) (int64, error) {
	num, err := t.FindNumber(ctx, "count(*)", opts...)
	if err != nil {
		return 0, err
	}
	switch n := num.(type) {
	case nil:
		return 0, nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case float64:
		return int64(n), nil
	}
	return 0, errors.Errorf("unexpected count result type [%T]", num)
}

// buildLimitArgs 把 limit 参数翻译成占位符和查询参数
//
// 整数一个占位符，两元素切片翻译成 offset, count 两个占位符
func buildLimitArgs(limit any) (string, []any, error) {
	v := reflect.ValueOf(limit)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "?", []any{limit}, nil
	case reflect.Slice, reflect.Array:
		if v.Len() == 2 {
			return "?, ?", []any{v.Index(0).Interface(), v.Index(1).Interface()}, nil
		}
	}
	return "", nil, errors.WithMessagef(ErrInvalidLimit, "limit [%v]", limit)
}
