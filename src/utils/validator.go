package utils

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct ตรวจ struct ตาม validate tag แล้วคืน map ฟิลด์ -> ข้อความ
// คืน nil ถ้าผ่านหมด
func ValidateStruct(s any) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	fields := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		fields["_"] = err.Error()
		return fields
	}

	for _, fieldError := range validationErrors {
		name := lowerFirst(fieldError.Field())
		switch fieldError.Tag() {
		case "required":
			fields[name] = name + " is required"
		case "max":
			fields[name] = name + " must be at most " + fieldError.Param() + " characters"
		default:
			fields[name] = name + " is invalid (" + fieldError.Tag() + ")"
		}
	}
	return fields
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
