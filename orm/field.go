package orm

import (
	"fmt"
)

// Field 描述记录的一个属性到数据库列的映射
//
// 属性名是记录里的键，列名默认与属性名相同，可以用 WithColumn 改写。
// 默认值在插入时解析，函数默认值每次解析时调用
type Field struct {
	attr         string
	name         string
	sqlType      string
	primaryKey   bool
	defaultValue any

	// boolean 和 text 列不能作为主键
	keyEligible bool
}

// FieldOption 字段构造选项
type FieldOption func(*Field)

// WithColumn 指定列名，缺省使用属性名
func WithColumn(name string) FieldOption {
	return func(f *Field) {
		if name != "" {
			f.name = name
		}
	}
}

// WithSQLType 改写列的 SQL 类型，比如 varchar(50)
func WithSQLType(sqlType string) FieldOption {
	return func(f *Field) {
		if sqlType != "" {
			f.sqlType = sqlType
		}
	}
}

// WithPrimaryKey 声明该字段为主键
func WithPrimaryKey() FieldOption {
	return func(f *Field) {
		f.primaryKey = true
	}
}

// WithDefault 设置插入时的默认值，nil 表示没有默认值
func WithDefault(value any) FieldOption {
	return func(f *Field) {
		f.defaultValue = value
	}
}

// WithDefaultFunc 设置默认值工厂，常用于主键生成
func WithDefaultFunc(fn func() any) FieldOption {
	return func(f *Field) {
		f.defaultValue = fn
	}
}

func newField(attr string, sqlType string, defaultValue any, keyEligible bool, opts []FieldOption) *Field {
	f := &Field{
		attr:         attr,
		name:         attr,
		sqlType:      sqlType,
		defaultValue: defaultValue,
		keyEligible:  keyEligible,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// StringField 创建 varchar(100) 字符串字段
func StringField(attr string, opts ...FieldOption) *Field {
	return newField(attr, "varchar(100)", nil, true, opts)
}

// BooleanField 创建 boolean 字段，默认值 false
func BooleanField(attr string, opts ...FieldOption) *Field {
	return newField(attr, "boolean", false, false, opts)
}

// IntegerField 创建 bigint 整型字段，默认值 0
func IntegerField(attr string, opts ...FieldOption) *Field {
	return newField(attr, "bigint", 0, true, opts)
}

// FloatField 创建 real 浮点字段，默认值 0.0
func FloatField(attr string, opts ...FieldOption) *Field {
	return newField(attr, "real", 0.0, true, opts)
}

// TextField 创建 text 文本字段
func TextField(attr string, opts ...FieldOption) *Field {
	return newField(attr, "text", nil, false, opts)
}

// Attr 属性名
func (f *Field) Attr() string {
	return f.attr
}

// Name 列名
func (f *Field) Name() string {
	return f.name
}

// SQLType 列的 SQL 类型
func (f *Field) SQLType() string {
	return f.sqlType
}

// PrimaryKey 是否声明为主键
func (f *Field) PrimaryKey() bool {
	return f.primaryKey
}

// Default 默认值，可能是 func() any 工厂
func (f *Field) Default() any {
	return f.defaultValue
}

func (f *Field) String() string {
	return fmt.Sprintf("<%s:%s>", f.sqlType, f.name)
}
