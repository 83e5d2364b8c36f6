package decoder

import (
	"reflect"
	"strings"
	"time"

	"github.com/hatlonely/ormx/cfg/def"
	"github.com/pkg/errors"
)

var anyType = reflect.TypeOf((*any)(nil)).Elem()

// Raw 未绑定的原始配置子树
// 结构体中 any 类型的字段在绑定时拿到 *Raw，由使用方决定最终绑定到哪个
// 具体类型；ref.New 创建组件时通过 ConvertTo 完成延迟绑定
type Raw struct {
	data any
}

// NewRaw 包装一棵原始配置子树
func NewRaw(data any) *Raw {
	return &Raw{data: data}
}

// Data 返回原始配置数据
func (r *Raw) Data() any {
	return r.data
}

// ConvertTo 将原始配置绑定到目标对象，并填充 def tag 默认值
func (r *Raw) ConvertTo(object any) error {
	if err := Bind(r.data, object); err != nil {
		return err
	}
	return def.SetDefaults(object)
}

// Bind 将解码后的原始数据按 cfg tag 绑定到目标对象
// 字段查找顺序：cfg tag、小驼峰字段名、原始字段名
func Bind(data any, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return errors.New("bind target must be a non-nil pointer")
	}
	return bindValue(data, rv.Elem())
}

func bindValue(data any, dst reflect.Value) error {
	if data == nil {
		return nil
	}
	if raw, ok := data.(*Raw); ok {
		data = raw.data
	}

	dstType := dst.Type()

	// any 类型的目标直接保留原始数据
	if dstType == anyType {
		dst.Set(reflect.ValueOf(data))
		return nil
	}

	// 指针目标先分配再绑定
	if dstType.Kind() == reflect.Ptr {
		if dst.IsNil() {
			dst.Set(reflect.New(dstType.Elem()))
		}
		return bindValue(data, dst.Elem())
	}

	// time.Duration 和 time.Time 支持从字符串解析
	if dstType == reflect.TypeOf(time.Duration(0)) {
		if s, ok := data.(string); ok {
			d, err := time.ParseDuration(s)
			if err != nil {
				return errors.Wrapf(err, "invalid duration %q", s)
			}
			dst.SetInt(int64(d))
			return nil
		}
	}
	if dstType == reflect.TypeOf(time.Time{}) {
		if s, ok := data.(string); ok {
			t, err := parseTime(s)
			if err != nil {
				return err
			}
			dst.Set(reflect.ValueOf(t))
			return nil
		}
	}

	srcValue := reflect.ValueOf(data)
	if srcValue.Type().AssignableTo(dstType) {
		dst.Set(srcValue)
		return nil
	}

	switch dst.Kind() {
	case reflect.Struct:
		return bindStruct(data, dst)
	case reflect.Slice:
		return bindSlice(data, dst)
	case reflect.Map:
		return bindMap(data, dst)
	case reflect.String:
		if srcValue.Kind() == reflect.String {
			dst.SetString(srcValue.String())
			return nil
		}
	case reflect.Bool:
		if srcValue.Kind() == reflect.Bool {
			dst.SetBool(srcValue.Bool())
			return nil
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		// json 解析出的数值是 float64，yaml/toml 是 int/int64，统一收拢
		if srcValue.CanInt() {
			dst.SetInt(srcValue.Int())
			return nil
		}
		if srcValue.CanUint() {
			dst.SetInt(int64(srcValue.Uint()))
			return nil
		}
		if srcValue.CanFloat() {
			dst.SetInt(int64(srcValue.Float()))
			return nil
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if srcValue.CanInt() {
			dst.SetUint(uint64(srcValue.Int()))
			return nil
		}
		if srcValue.CanUint() {
			dst.SetUint(srcValue.Uint())
			return nil
		}
		if srcValue.CanFloat() {
			dst.SetUint(uint64(srcValue.Float()))
			return nil
		}
	case reflect.Float32, reflect.Float64:
		if srcValue.CanFloat() {
			dst.SetFloat(srcValue.Float())
			return nil
		}
		if srcValue.CanInt() {
			dst.SetFloat(float64(srcValue.Int()))
			return nil
		}
		if srcValue.CanUint() {
			dst.SetFloat(float64(srcValue.Uint()))
			return nil
		}
	}

	return errors.Errorf("cannot bind %T to %s", data, dstType)
}

func bindStruct(data any, dst reflect.Value) error {
	fields, err := mapEntries(data)
	if err != nil {
		return err
	}

	dstType := dst.Type()
	for i := 0; i < dstType.NumField(); i++ {
		field := dstType.Field(i)
		if !field.IsExported() {
			continue
		}

		// 内嵌结构体在同一层级展开
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			if err := bindStruct(data, dst.Field(i)); err != nil {
				return err
			}
			continue
		}

		value, ok := lookupField(fields, field)
		if !ok || value == nil {
			continue
		}

		// any 类型的字段保留为 Raw，由使用方延迟绑定
		if field.Type == anyType {
			if isMap(value) {
				dst.Field(i).Set(reflect.ValueOf(NewRaw(value)))
			} else {
				dst.Field(i).Set(reflect.ValueOf(value))
			}
			continue
		}

		if err := bindValue(value, dst.Field(i)); err != nil {
			return errors.WithMessagef(err, "bind field %s failed", field.Name)
		}
	}
	return nil
}

func bindSlice(data any, dst reflect.Value) error {
	src := reflect.ValueOf(data)
	if src.Kind() != reflect.Slice && src.Kind() != reflect.Array {
		// 标量绑定为单元素切片
		slice := reflect.MakeSlice(dst.Type(), 1, 1)
		if err := bindValue(data, slice.Index(0)); err != nil {
			return err
		}
		dst.Set(slice)
		return nil
	}

	slice := reflect.MakeSlice(dst.Type(), src.Len(), src.Len())
	for i := 0; i < src.Len(); i++ {
		if err := bindValue(src.Index(i).Interface(), slice.Index(i)); err != nil {
			return errors.WithMessagef(err, "bind element %d failed", i)
		}
	}
	dst.Set(slice)
	return nil
}

func bindMap(data any, dst reflect.Value) error {
	fields, err := mapEntries(data)
	if err != nil {
		return err
	}
	if dst.Type().Key().Kind() != reflect.String {
		return errors.Errorf("map key type must be string, got %s", dst.Type().Key())
	}

	result := reflect.MakeMapWithSize(dst.Type(), len(fields))
	for k, v := range fields {
		elem := reflect.New(dst.Type().Elem()).Elem()
		if err := bindValue(v, elem); err != nil {
			return errors.WithMessagef(err, "bind key %s failed", k)
		}
		result.SetMapIndex(reflect.ValueOf(k).Convert(dst.Type().Key()), elem)
	}
	dst.Set(result)
	return nil
}

// lookupField 依次尝试 cfg tag、小驼峰字段名、原始字段名
func lookupField(fields map[string]any, field reflect.StructField) (any, bool) {
	if tag, ok := field.Tag.Lookup("cfg"); ok {
		name := strings.Split(tag, ",")[0]
		if name == "-" {
			return nil, false
		}
		if name != "" {
			value, ok := fields[name]
			return value, ok
		}
	}
	if value, ok := fields[lowerCamel(field.Name)]; ok {
		return value, true
	}
	value, ok := fields[field.Name]
	return value, ok
}

func lowerCamel(name string) string {
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func mapEntries(data any) (map[string]any, error) {
	switch m := data.(type) {
	case map[string]any:
		return m, nil
	case map[any]any:
		result := make(map[string]any, len(m))
		for k, v := range m {
			key, ok := k.(string)
			if !ok {
				return nil, errors.Errorf("map key %v is not a string", k)
			}
			result[key] = v
		}
		return result, nil
	}
	return nil, errors.Errorf("cannot bind %T as a map", data)
}

func isMap(data any) bool {
	switch data.(type) {
	case map[string]any, map[any]any:
		return true
	}
	return false
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("invalid time %q", s)
}
