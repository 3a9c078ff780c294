package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// BindingError 将 gin 绑定/校验错误格式化为可读信息
func BindingError(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "请求参数格式错误"
	}

	var messages []string
	for _, e := range validationErrors {
		field := lowerFirst(e.Field())
		param := e.Param()

		var message string
		switch e.Tag() {
		case "required":
			message = fmt.Sprintf("%s是必填字段", field)
		case "min":
			message = fmt.Sprintf("%s长度不能小于%s", field, param)
		case "max":
			message = fmt.Sprintf("%s长度不能大于%s", field, param)
		case "email":
			message = fmt.Sprintf("%s必须是有效的邮箱地址", field)
		case "oneof":
			message = fmt.Sprintf("%s必须是以下值之一: %s", field, param)
		case "eqfield":
			message = fmt.Sprintf("%s必须与%s一致", field, lowerFirst(param))
		default:
			message = fmt.Sprintf("%s验证失败: %s", field, e.Tag())
		}

		messages = append(messages, message)
	}

	return strings.Join(messages, "; ")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
