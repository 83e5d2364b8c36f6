package orm

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Schema 一张表的完整映射：属性到字段、主键，以及预编译好的四条语句模板
//
// NewSchema 返回后不再变化，可以被多个 Table 并发共享
type Schema struct {
	table       string
	mappings    map[string]*Field
	columnAttrs map[string]string
	primaryKey  string
	fields      []string

	tableIdent string
	pkColumn   string

	selectSQL string
	insertSQL string
	updateSQL string
	deleteSQL string
}

// NewSchema 注册一张表的映射
//
// 校验属性不重复、主键唯一且类型合法，然后生成 select/insert/update/delete 模板。
// 模板里的标识符统一用反引号转义，占位符统一是 ?，insert 和 update 的参数
// 顺序都是非主键字段按声明顺序排列、主键排最后
func NewSchema(table string, fields []*Field) (*Schema, error) {
	if table == "" {
		return nil, errors.New("table name is empty")
	}

	mappings := make(map[string]*Field, len(fields))
	columnAttrs := make(map[string]string, len(fields))
	var attrs []string
	var primaryKey string
	for _, field := range fields {
		if _, ok := mappings[field.attr]; ok {
			return nil, errors.WithMessagef(ErrDuplicateAttribute, "attribute [%s]", field.attr)
		}
		if prev, ok := columnAttrs[field.name]; ok {
			return nil, errors.WithMessagef(ErrDuplicateAttribute, "column [%s] mapped by [%s] and [%s]", field.name, prev, field.attr)
		}
		mappings[field.attr] = field
		columnAttrs[field.name] = field.attr
		if !field.primaryKey {
			attrs = append(attrs, field.attr)
			continue
		}
		if !field.keyEligible {
			return nil, errors.WithMessagef(ErrFieldNotEligible, "attribute [%s] type [%s]", field.attr, field.sqlType)
		}
		if primaryKey != "" {
			return nil, errors.WithMessagef(ErrDuplicatePrimaryKey, "attribute [%s]", field.attr)
		}
		primaryKey = field.attr
	}
	if primaryKey == "" {
		return nil, errors.WithMessagef(ErrMissingPrimaryKey, "table [%s]", table)
	}

	tableIdent := escapeIdent(table)
	pkColumn := escapeIdent(mappings[primaryKey].name)

	escapedColumns := make([]string, 0, len(attrs))
	setClauses := make([]string, 0, len(attrs))
	for _, attr := range attrs {
		column := escapeIdent(mappings[attr].name)
		escapedColumns = append(escapedColumns, column)
		setClauses = append(setClauses, column+"=?")
	}

	selectColumns := pkColumn
	insertColumns := pkColumn
	if len(escapedColumns) > 0 {
		selectColumns = pkColumn + ", " + strings.Join(escapedColumns, ",")
		insertColumns = strings.Join(escapedColumns, ",") + ", " + pkColumn
	}

	return &Schema{
		table:       table,
		mappings:    mappings,
		columnAttrs: columnAttrs,
		primaryKey:  primaryKey,
		fields:      attrs,
		tableIdent:  tableIdent,
		pkColumn:    pkColumn,
		selectSQL:   fmt.Sprintf("select %s from %s", selectColumns, tableIdent),
		insertSQL:   fmt.Sprintf("insert into %s (%s) values(%s)", tableIdent, insertColumns, placeholders(len(attrs)+1)),
		updateSQL:   fmt.Sprintf("update %s set %s where %s = ?", tableIdent, strings.Join(setClauses, ", "), pkColumn),
		deleteSQL:   fmt.Sprintf("delete from %s where %s = ?", tableIdent, pkColumn),
	}, nil
}

// MustNewSchema 注册失败时 panic，适合包级变量初始化
func MustNewSchema(table string, fields []*Field) *Schema {
	schema, err := NewSchema(table, fields)
	if err != nil {
		panic(err)
	}
	return schema
}

// Table 表名
func (s *Schema) Table() string {
	return s.table
}

// PrimaryKey 主键属性名
func (s *Schema) PrimaryKey() string {
	return s.primaryKey
}

// Fields 除主键外的属性名，按声明顺序
func (s *Schema) Fields() []string {
	fields := make([]string, len(s.fields))
	copy(fields, s.fields)
	return fields
}

// Field 按属性名取字段映射，不存在返回 nil
func (s *Schema) Field(attr string) *Field {
	return s.mappings[attr]
}

// SelectSQL 查询模板
func (s *Schema) SelectSQL() string {
	return s.selectSQL
}

// InsertSQL 插入模板
func (s *Schema) InsertSQL() string {
	return s.insertSQL
}

// UpdateSQL 按主键更新的模板
func (s *Schema) UpdateSQL() string {
	return s.updateSQL
}

// DeleteSQL 按主键删除的模板
func (s *Schema) DeleteSQL() string {
	return s.deleteSQL
}

// escapeIdent 反引号括起标识符，内部的反引号翻倍
func escapeIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "?"
	}
	return strings.Join(parts, ",")
}
