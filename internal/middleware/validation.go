package middleware

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// SetupValidator configures gin's validator: field names follow json/form tags and
// decimal.Decimal values compare numerically in gt/gte/lt/lte rules.
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				f, _ := d.Float64()
				return f
			}
			return nil
		}, decimal.Decimal{})
	}
}

// ValidationMessage turns a binding error into an Arabic message naming the first bad field.
func ValidationMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return "صيغة البيانات المرسلة غير صحيحة"
	}
	e := validationErrors[0]
	field := e.Field()
	switch e.Tag() {
	case "required":
		return "الحقل " + field + " مطلوب"
	case "min":
		if e.Kind() == reflect.String {
			return "الحقل " + field + " يجب ألا يقل عن " + e.Param() + " أحرف"
		}
		return "الحقل " + field + " يجب ألا يقل عن " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "الحقل " + field + " يجب ألا يزيد عن " + e.Param() + " حرف"
		}
		return "الحقل " + field + " يجب ألا يزيد عن " + e.Param()
	case "gt":
		return "الحقل " + field + " يجب أن يكون أكبر من " + e.Param()
	case "gte":
		return "الحقل " + field + " يجب ألا يكون سالباً"
	case "lte":
		return "الحقل " + field + " يجب ألا يزيد عن " + e.Param()
	case "oneof":
		return "قيمة الحقل " + field + " يجب أن تكون إحدى القيم: " + e.Param()
	case "datetime":
		return "الحقل " + field + " يجب أن يكون تاريخاً بصيغة YYYY-MM-DD"
	case "nefield":
		return "الحقل " + field + " يجب أن يختلف عن " + e.Param()
	case "len":
		return "الحقل " + field + " يجب أن يتكون من " + e.Param() + " أحرف"
	default:
		return "قيمة الحقل " + field + " غير صالحة"
	}
}
