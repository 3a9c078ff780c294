package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// StringList 以JSON文本存储的字符串列表
type StringList []string

// Scan 实现sql.Scanner接口
func (l *StringList) Scan(value interface{}) error {
	data, err := jsonBytes(value)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		*l = StringList{}
		return nil
	}
	return json.Unmarshal(data, l)
}

// Value 实现driver.Valuer接口
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// CleanStringList 去除首尾空白并过滤空项，保持原有顺序
func CleanStringList(items []string) StringList {
	cleaned := make(StringList, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			cleaned = append(cleaned, item)
		}
	}
	return cleaned
}

// TestCaseResult 单个测试用例的执行结果
type TestCaseResult struct {
	TestCase string `json:"testCase"`
	Passed   bool   `json:"passed"`
	Notes    string `json:"notes,omitempty"`
}

// TestCaseResults 以JSON文本存储的执行结果列表
type TestCaseResults []TestCaseResult

// Scan 实现sql.Scanner接口
func (r *TestCaseResults) Scan(value interface{}) error {
	data, err := jsonBytes(value)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		*r = TestCaseResults{}
		return nil
	}
	return json.Unmarshal(data, r)
}

// Value 实现driver.Valuer接口
func (r TestCaseResults) Value() (driver.Value, error) {
	if r == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]TestCaseResult(r))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// PassedCount 通过的用例数
func (r TestCaseResults) PassedCount() int {
	passed := 0
	for _, tc := range r {
		if tc.Passed {
			passed++
		}
	}
	return passed
}

func jsonBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("不支持的JSON列类型: %T", value)
	}
}
