package utils

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DetectImage 根据文件内容检测图片类型，返回 MIME 与扩展名
func DetectImage(data []byte) (string, string, bool) {
	mtype := mimetype.Detect(data)
	for m := mtype; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "image/") {
			return mtype.String(), mtype.Extension(), true
		}
	}
	return mtype.String(), "", false
}

// SafeExtension 取上传文件名的扩展名（小写），检测失败时的兜底
func SafeExtension(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) > 10 || strings.ContainsAny(ext, `/\ `) {
		return ""
	}
	return ext
}

// ParseStringListParam 解析查询参数中的列表
// 支持 JSON 数组（["a","b"]）或单个字符串；结果去除空白项
func ParseStringListParam(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var items []string
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			items = []string{raw}
		}
	} else {
		items = []string{raw}
	}

	result := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}

// ParseBoolParam 解析布尔查询参数，缺省为 false，无法识别的取值返回错误
func ParseBoolParam(raw, field string) (bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s只能为true或false", field)
	}
	return value, nil
}
