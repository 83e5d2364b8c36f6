package orm

import (
	"context"
	"reflect"

	"github.com/pkg/errors"

	"github.com/hatlonely/ormx/orm/database"
)

// Record 一行记录，属性到值的松散映射
//
// 没有注册进映射的键也可以读写，但只有映射里的字段参与持久化
type Record struct {
	table *Table
	data  map[string]any
}

// NewRecord 用初始值创建一条新记录
func (t *Table) NewRecord(values map[string]any) *Record {
	data := make(map[string]any, len(values))
	for key, value := range values {
		data[key] = value
	}
	return &Record{table: t, data: data}
}

// newRecordFromRow 把查询结果物化成记录，键从列名换回属性名
func (t *Table) newRecordFromRow(row database.Row) *Record {
	values := row.Values()
	data := make(map[string]any, len(values))
	for column, value := range values {
		if attr, ok := t.schema.columnAttrs[column]; ok {
			data[attr] = value
		} else {
			data[column] = value
		}
	}
	return &Record{table: t, data: data}
}

// Attr 取属性值，属性不存在返回 ErrAttributeNotFound
func (r *Record) Attr(key string) (any, error) {
	value, ok := r.data[key]
	if !ok {
		return nil, errors.WithMessagef(ErrAttributeNotFound, "attribute [%s]", key)
	}
	return value, nil
}

// Get 取属性值，不存在返回 nil
func (r *Record) Get(key string) any {
	return r.data[key]
}

// Set 写属性值，键不必出现在映射里
func (r *Record) Set(key string, value any) {
	r.data[key] = value
}

// GetOrDefault 取属性值，缺失或为空值时解析字段默认值
//
// 函数默认值会被调用，解析出的默认值写回记录，下次直接读到
func (r *Record) GetOrDefault(key string) any {
	value := r.data[key]
	if !isEmptyValue(value) {
		return value
	}
	field := r.table.schema.mappings[key]
	if field == nil || field.defaultValue == nil {
		return value
	}
	value = field.defaultValue
	if factory, ok := value.(func() any); ok {
		value = factory()
	}
	r.table.logger.Debug("using default value", "attr", key, "value", value)
	r.data[key] = value
	return value
}

// isEmptyValue 判定空值，nil、false、0、0.0、空字符串、空集合都算
func isEmptyValue(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return v.IsZero()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	}
	return false
}

// Save 插入记录，参数按字段声明顺序取值、主键排最后，缺省值在这里解析
//
// 受影响行数不为 1 只记告警，不作为错误返回；执行失败原样返回错误
func (r *Record) Save(ctx context.Context) error {
	schema := r.table.schema
	args := make([]any, 0, len(schema.fields)+1)
	for _, attr := range schema.fields {
		args = append(args, r.GetOrDefault(attr))
	}
	args = append(args, r.GetOrDefault(schema.primaryKey))

	affected, err := r.table.db.Execute(ctx, schema.insertSQL, args)
	if err != nil {
		return err
	}
	if affected != 1 {
		r.table.logger.WarnContext(ctx, "failed to insert record", "affected_rows", affected)
	}
	return nil
}

// Update 按主键更新全部字段，没有设值的字段写入 nil
func (r *Record) Update(ctx context.Context) error {
	schema := r.table.schema
	args := make([]any, 0, len(schema.fields)+1)
	for _, attr := range schema.fields {
		args = append(args, r.Get(attr))
	}
	args = append(args, r.Get(schema.primaryKey))

	affected, err := r.table.db.Execute(ctx, schema.updateSQL, args)
	if err != nil {
		return err
	}
	if affected != 1 {
		r.table.logger.WarnContext(ctx, "failed to update by primary key", "affected_rows", affected)
	}
	return nil
}

// Remove 按主键删除记录
func (r *Record) Remove(ctx context.Context) error {
	schema := r.table.schema
	affected, err := r.table.db.Execute(ctx, schema.deleteSQL, []any{r.Get(schema.primaryKey)})
	if err != nil {
		return err
	}
	if affected != 1 {
		r.table.logger.WarnContext(ctx, "failed to remove by primary key", "affected_rows", affected)
	}
	return nil
}
