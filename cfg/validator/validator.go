package validator

import (
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct 使用 validator 校验结构体上的 validate tag
// nil、非结构体以及 time.Time 直接通过，便于对可选配置做统一校验
func ValidateStruct(object any) error {
	if object == nil {
		return nil
	}

	rv := reflect.ValueOf(object)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}

	if rv.Kind() != reflect.Struct {
		return nil
	}
	if rv.Type() == reflect.TypeOf(time.Time{}) {
		return nil
	}

	return validate.Struct(rv.Interface())
}
