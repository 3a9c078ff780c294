package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexibleList 既接受JSON数组也接受单个字符串
type FlexibleList []string

// UnmarshalJSON 实现json.Unmarshaler接口
func (l *FlexibleList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		*l = FlexibleList{single}
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("需要字符串或字符串数组")
	}
	*l = items
	return nil
}

// FlexibleID 既接受数字也接受字符串形式的ID，原样保留交给服务层校验
type FlexibleID string

// UnmarshalJSON 实现json.Unmarshaler接口
func (id *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = FlexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("ID格式错误")
	}
	if _, err := strconv.ParseUint(n.String(), 10, 64); err != nil {
		return fmt.Errorf("ID格式错误")
	}
	*id = FlexibleID(n.String())
	return nil
}

// UserSummary 用户摘要
type UserSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PaginatedResponse 分页响应
type PaginatedResponse struct {
	Items   interface{} `json:"items"`
	Total   int64       `json:"total"`
	Page    int         `json:"page"`
	PerPage int         `json:"perPage"`
}

// UploadResponse 上传响应
type UploadResponse struct {
	URLs    []string `json:"urls"`
	Skipped int      `json:"skipped"`
}
