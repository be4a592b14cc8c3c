package helper

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validate dipakai bersama oleh semua controller.
var Validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidationMessages mengubah error validator jadi pesan berbahasa Indonesia.
func ValidationMessages(ve validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(ve))
	for _, fe := range ve {
		field := fe.Field()
		switch fe.Tag() {
		case "required", "required_without":
			out[field] = field + " wajib diisi."
		case "email":
			out[field] = "Format email tidak valid."
		case "min":
			if fe.Kind() == reflect.Slice {
				out[field] = fmt.Sprintf("%s minimal berisi %s item.", field, fe.Param())
			} else {
				out[field] = fmt.Sprintf("%s minimal %s karakter.", field, fe.Param())
			}
		case "max":
			out[field] = fmt.Sprintf("%s maksimal %s karakter.", field, fe.Param())
		case "oneof":
			out[field] = fmt.Sprintf("%s harus salah satu dari: %s.", field, fe.Param())
		case "uuid", "uuid4":
			out[field] = field + " harus berupa UUID."
		case "eqfield":
			out[field] = field + " tidak sama dengan " + fe.Param() + "."
		case "datetime":
			out[field] = fmt.Sprintf("%s harus berformat %s.", field, fe.Param())
		case "dive":
			out[field] = field + " berisi nilai yang tidak valid."
		default:
			out[field] = field + " tidak valid."
		}
	}
	return out
}
