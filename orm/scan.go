package orm

import (
	"reflect"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// NewRecordFromStruct 从结构体构建记录
//
// 键取 orm tag 的第一段，没有 tag 用小驼峰的字段名，tag 为 - 的字段跳过
func (t *Table) NewRecordFromStruct(v any) (*Record, error) {
	data, err := structToMap(v)
	if err != nil {
		return nil, err
	}
	return &Record{table: t, data: data}, nil
}

// Scan 把记录的值拷贝进结构体，匹配规则与 NewRecordFromStruct 相同
//
// 记录里缺失或为 nil 的键跳过，dest 必须是结构体指针
func (r *Record) Scan(dest any) error {
	return mapToStruct(r.data, dest)
}

func structToMap(v any) (map[string]any, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, errors.Errorf("expected struct, got %T", v)
	}

	rt := rv.Type()
	result := make(map[string]any, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		key := attrKey(field)
		if key == "" {
			continue
		}
		result[key] = rv.Field(i).Interface()
	}
	return result, nil
}

func mapToStruct(data map[string]any, dest any) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return errors.New("dest must be a pointer to struct")
	}

	rv = rv.Elem()
	rt := rv.Type()
	for i := 0; i < rv.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		value, ok := lookupAttr(data, field)
		if !ok || value == nil {
			continue
		}
		fieldValue := rv.Field(i)
		if !fieldValue.CanSet() {
			continue
		}
		if err := setFieldValue(fieldValue, value); err != nil {
			return errors.WithMessagef(err, "set field [%s]", field.Name)
		}
	}
	return nil
}

// attrKey 结构体字段对应的属性名，忽略的字段返回空串
func attrKey(field reflect.StructField) string {
	if tag, ok := field.Tag.Lookup("orm"); ok {
		name := strings.Split(tag, ",")[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return lowerCamel(field.Name)
}

func lookupAttr(data map[string]any, field reflect.StructField) (any, bool) {
	if tag, ok := field.Tag.Lookup("orm"); ok {
		name := strings.Split(tag, ",")[0]
		if name == "-" {
			return nil, false
		}
		if name != "" {
			value, ok := data[name]
			return value, ok
		}
	}
	if value, ok := data[lowerCamel(field.Name)]; ok {
		return value, true
	}
	value, ok := data[field.Name]
	return value, ok
}

func lowerCamel(name string) string {
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}

// setFieldValue 把数据库返回的值写进结构体字段，处理驱动的类型差异
func setFieldValue(fieldValue reflect.Value, value any) error {
	if value == nil {
		return nil
	}

	valueType := reflect.TypeOf(value)
	fieldType := fieldValue.Type()

	// boolean 列经由 mysql 和 sqlite 都返回整数
	if fieldType.Kind() == reflect.Bool {
		switch v := value.(type) {
		case int64:
			fieldValue.SetBool(v != 0)
			return nil
		case int:
			fieldValue.SetBool(v != 0)
			return nil
		case bool:
			fieldValue.SetBool(v)
			return nil
		}
	}

	if fieldType == reflect.TypeOf(time.Time{}) {
		switch v := value.(type) {
		case time.Time:
			fieldValue.Set(reflect.ValueOf(v))
			return nil
		case string:
			timeFormats := []string{
				"2006-01-02 15:04:05.999999999-07:00",
				"2006-01-02 15:04:05",
				time.RFC3339Nano,
				time.RFC3339,
			}
			var lastErr error
			for _, format := range timeFormats {
				parsed, err := time.Parse(format, v)
				if err == nil {
					fieldValue.Set(reflect.ValueOf(parsed))
					return nil
				}
				lastErr = err
			}
			return errors.WithMessagef(lastErr, "cannot parse time string [%s]", v)
		}
	}

	if valueType.AssignableTo(fieldType) {
		fieldValue.Set(reflect.ValueOf(value))
		return nil
	}

	if valueType.ConvertibleTo(fieldType) {
		fieldValue.Set(reflect.ValueOf(value).Convert(fieldType))
		return nil
	}

	return errors.Errorf("cannot convert %v to %v", valueType, fieldType)
}
