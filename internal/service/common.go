package service

import (
	"strconv"
	"strings"

	"utc-go/internal/apperror"
)

// ParseID 解析路径或请求体中的记录ID，格式不合法时返回校验错误
func ParseID(raw string, field string) (uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, apperror.Validation("%s不能为空", field)
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.Validation("无效的%s: %s", field, raw)
	}
	return uint(id), nil
}

func lowerTrim(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
