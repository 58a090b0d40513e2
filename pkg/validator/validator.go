// pkg/validator/validator.go
package validator

import (
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// 使用 JSON 标签名作为字段名
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// 注册自定义验证规则
	registerCustomValidators()
}

func registerCustomValidators() {
	// 验证标签名：字母、数字、空格和常用连接符
	validate.RegisterValidation("tagname", func(fl validator.FieldLevel) bool {
		name := strings.TrimSpace(fl.Field().String())
		if name == "" {
			return false
		}
		for _, char := range name {
			if unicode.IsLetter(char) || unicode.IsDigit(char) || unicode.IsSpace(char) {
				continue
			}
			if char == '-' || char == '_' || char == '&' {
				continue
			}
			return false
		}
		return true
	})
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func GetValidator() *validator.Validate {
	return validate
}
