package def

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// SetDefaults 为结构体设置默认值，基于 def tag
// 只有零值字段会被填充，已有值的字段保持不变
func SetDefaults(object any) error {
	if object == nil {
		return fmt.Errorf("object cannot be nil")
	}

	rv := reflect.ValueOf(object)
	if rv.Kind() != reflect.Ptr {
		return fmt.Errorf("object must be a pointer")
	}

	if rv.IsNil() {
		return fmt.Errorf("object cannot be nil")
	}

	return setDefaults(rv.Elem())
}

// setDefaults 递归地为结构体字段设置默认值
func setDefaults(rv reflect.Value) error {
	if !rv.IsValid() {
		return nil
	}

	// 处理指针类型
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		return setDefaults(rv.Elem())
	}

	// 只处理结构体类型
	if rv.Kind() != reflect.Struct {
		return nil
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		fieldValue := rv.Field(i)

		if !fieldValue.CanSet() {
			continue
		}

		defTag := field.Tag.Get("def")

		// 嵌套结构体递归处理
		if fieldValue.Kind() == reflect.Struct ||
			(fieldValue.Kind() == reflect.Ptr && fieldValue.Type().Elem().Kind() == reflect.Struct) {
			if err := setDefaults(fieldValue); err != nil {
				return fmt.Errorf("failed to set defaults for field %s: %v", field.Name, err)
			}
		}

		// 结构体切片的元素逐个递归
		if fieldValue.Kind() == reflect.Slice && fieldValue.Type().Elem().Kind() == reflect.Struct {
			for j := 0; j < fieldValue.Len(); j++ {
				if err := setDefaults(fieldValue.Index(j)); err != nil {
					return fmt.Errorf("failed to set defaults for field %s[%d]: %v", field.Name, j, err)
				}
			}
		}

		if defTag == "" {
			continue
		}

		// 只有在字段为零值时才设置默认值
		if !fieldValue.IsZero() {
			continue
		}

		// 如果字段是指针且为 nil，需要分配内存
		if fieldValue.Kind() == reflect.Ptr && fieldValue.IsNil() {
			fieldValue.Set(reflect.New(fieldValue.Type().Elem()))
			fieldValue = fieldValue.Elem()
		}

		if err := setDefaultValue(fieldValue, defTag); err != nil {
			return fmt.Errorf("failed to set default value for field %s: %v", field.Name, err)
		}
	}

	return nil
}

// setDefaultValue 根据字段类型和 def tag 设置默认值
func setDefaultValue(rv reflect.Value, defValue string) error {
	switch rv.Kind() {
	case reflect.String:
		rv.SetString(defValue)
		return nil

	case reflect.Bool:
		val, err := strconv.ParseBool(defValue)
		if err != nil {
			return fmt.Errorf("invalid bool value %q: %v", defValue, err)
		}
		rv.SetBool(val)
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		// 特殊处理 time.Duration
		if rv.Type() == reflect.TypeOf(time.Duration(0)) {
			return setDurationDefault(rv, defValue)
		}
		val, err := strconv.ParseInt(defValue, 0, rv.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid int value %q: %v", defValue, err)
		}
		rv.SetInt(val)
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		val, err := strconv.ParseUint(defValue, 0, rv.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid uint value %q: %v", defValue, err)
		}
		rv.SetUint(val)
		return nil

	case reflect.Float32, reflect.Float64:
		val, err := strconv.ParseFloat(defValue, rv.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid float value %q: %v", defValue, err)
		}
		rv.SetFloat(val)
		return nil

	case reflect.Struct:
		// 特殊处理 time.Time
		if rv.Type() == reflect.TypeOf(time.Time{}) {
			return setTimeDefault(rv, defValue)
		}

	case reflect.Slice:
		return setSliceDefault(rv, defValue)

	case reflect.Map:
		return fmt.Errorf("map default values are not supported")
	}

	return fmt.Errorf("unsupported type %v", rv.Type())
}

// setDurationDefault 设置 time.Duration 类型的默认值
func setDurationDefault(rv reflect.Value, defValue string) error {
	duration, err := time.ParseDuration(defValue)
	if err != nil {
		// 尝试解析为纳秒数
		if val, numErr := strconv.ParseInt(defValue, 10, 64); numErr == nil {
			duration = time.Duration(val)
		} else {
			return fmt.Errorf("invalid duration value %q: %v", defValue, err)
		}
	}
	rv.Set(reflect.ValueOf(duration))
	return nil
}

// setTimeDefault 设置 time.Time 类型的默认值
func setTimeDefault(rv reflect.Value, defValue string) error {
	formats := []string{
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
		"15:04:05",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, defValue); err == nil {
			rv.Set(reflect.ValueOf(t))
			return nil
		}
	}

	// 尝试解析为 Unix 时间戳（支持小数秒）
	if timestamp, err := strconv.ParseInt(defValue, 10, 64); err == nil {
		rv.Set(reflect.ValueOf(time.Unix(timestamp, 0)))
		return nil
	}
	if timestamp, err := strconv.ParseFloat(defValue, 64); err == nil {
		seconds := int64(timestamp)
		nanoseconds := int64((timestamp - float64(seconds)) * 1e9)
		rv.Set(reflect.ValueOf(time.Unix(seconds, nanoseconds)))
		return nil
	}

	return fmt.Errorf("invalid time value %q", defValue)
}

// setSliceDefault 设置切片类型的默认值，支持逗号分隔的元素列表
func setSliceDefault(rv reflect.Value, defValue string) error {
	parts := strings.Split(defValue, ",")
	slice := reflect.MakeSlice(rv.Type(), len(parts), len(parts))

	if rv.Type().Elem().Kind() == reflect.String {
		for i, part := range parts {
			slice.Index(i).SetString(strings.TrimSpace(part))
		}
		rv.Set(slice)
		return nil
	}

	for i, part := range parts {
		if err := setDefaultValue(slice.Index(i), strings.TrimSpace(part)); err != nil {
			return fmt.Errorf("failed to set slice element %d: %v", i, err)
		}
	}

	rv.Set(slice)
	return nil
}
