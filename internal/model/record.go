package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Record 未定型的服务端 JSON 对象，字段名不稳定时通过优先级列表取值
type Record map[string]interface{}

// DecodeRecords 解码 JSON 数组；单个对象视为只有一个元素
func DecodeRecords(raw json.RawMessage) ([]Record, error) {
	var list []Record
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var one Record
	if err := json.Unmarshal(raw, &one); err != nil {
		return nil, err
	}
	if one == nil {
		return nil, nil
	}
	return []Record{one}, nil
}

// String 按顺序返回第一个非空字段，数字会被格式化
func (r Record) String(keys ...string) string {
	for _, k := range keys {
		v, ok := r[k]
		if !ok || v == nil {
			continue
		}
		var s string
		switch t := v.(type) {
		case string:
			s = t
		case float64:
			s = strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			s = strconv.FormatBool(t)
		case json.Number:
			s = t.String()
		default:
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

// Float 按顺序返回第一个可解析为数字的字段
func (r Record) Float(keys ...string) (float64, bool) {
	for _, k := range keys {
		switch t := r[k].(type) {
		case float64:
			return t, true
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(t), "%"), 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func (r Record) Int(keys ...string) int {
	f, _ := r.Float(keys...)
	return int(f)
}

func (r Record) Bool(keys ...string) bool {
	for _, k := range keys {
		switch t := r[k].(type) {
		case bool:
			return t
		case string:
			if b, err := strconv.ParseBool(t); err == nil {
				return b
			}
		}
	}
	return false
}

// Object 返回嵌套对象
func (r Record) Object(keys ...string) Record {
	for _, k := range keys {
		if m, ok := r[k].(map[string]interface{}); ok {
			return Record(m)
		}
	}
	return nil
}

// List 返回嵌套的对象数组
func (r Record) List(keys ...string) []Record {
	for _, k := range keys {
		items, ok := r[k].([]interface{})
		if !ok {
			continue
		}
		out := make([]Record, 0, len(items))
		for _, it := range items {
			if m, ok := it.(map[string]interface{}); ok {
				out = append(out, Record(m))
			}
		}
		return out
	}
	return nil
}

// Strings 返回字符串数组，数字和布尔值会被格式化，对象元素被忽略
func (r Record) Strings(keys ...string) []string {
	for _, k := range keys {
		items, ok := r[k].([]interface{})
		if !ok {
			continue
		}
		out := make([]string, 0, len(items))
		for _, it := range items {
			switch v := it.(type) {
			case string:
				out = append(out, v)
			case float64, bool:
				out = append(out, fmt.Sprint(v))
			}
		}
		return out
	}
	return nil
}
