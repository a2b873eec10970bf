package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Envelope 所有响应归一化后的形状
type Envelope struct {
	Success bool
	Data    json.RawMessage
	Message string
}

// 出现这些以外的键时，视为裸对象而不是 {data: ...} 包装
var envelopeKeys = map[string]bool{
	"success": true, "data": true, "message": true, "code": true, "status": true,
	"detail": true, "total": true, "count": true, "page": true, "limit": true, "meta": true,
}

// NormalizeEnvelope 识别以下几种形状：
//   - 裸对象 / 裸数组
//   - {"success": bool, "data": ...}
//   - {"data": [...]}（可附带分页字段）
//   - {"code": 200, "message": "...", "data": ...}
//   - {"status": "error" | "fail", "message": "...", "data": ...}
func NormalizeEnvelope(raw []byte) (Envelope, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Envelope{Success: true}, nil
	}
	if !json.Valid(trimmed) {
		return Envelope{}, fmt.Errorf("response is not valid JSON")
	}
	if trimmed[0] != '{' {
		return Envelope{Success: true, Data: json.RawMessage(trimmed)}, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return Envelope{}, err
	}

	env := Envelope{Success: true, Data: json.RawMessage(trimmed)}
	if msg, ok := obj["message"]; ok {
		_ = json.Unmarshal(msg, &env.Message)
	}

	if s, ok := obj["success"]; ok {
		var success bool
		if err := json.Unmarshal(s, &success); err == nil {
			env.Success = success
			if data, ok := obj["data"]; ok {
				env.Data = data
			}
			return env, nil
		}
	}

	if !onlyEnvelopeKeys(obj) {
		return env, nil
	}
	if failedStatus(obj["status"]) {
		env.Success = false
	}

	data, hasData := obj["data"]
	if !hasData {
		return env, nil
	}

	if c, ok := obj["code"]; ok {
		var code int
		if err := json.Unmarshal(c, &code); err == nil && code != 0 && (code < 200 || code > 299) {
			env.Success = false
		}
	}
	env.Data = data
	return env, nil
}

// failedStatus status 为字符串 error / fail / failed 时视为失败
func failedStatus(raw json.RawMessage) bool {
	var status string
	if len(raw) == 0 || json.Unmarshal(raw, &status) != nil {
		return false
	}
	switch strings.ToLower(status) {
	case "error", "fail", "failed":
		return true
	}
	return false
}

func onlyEnvelopeKeys(obj map[string]json.RawMessage) bool {
	for k := range obj {
		if !envelopeKeys[k] {
			return false
		}
	}
	return true
}

// UnwrapList 列表接口有时返回 {"items": [...]} 之类的对象，按给定键取出数组
func UnwrapList(data json.RawMessage, keys ...string) json.RawMessage {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return data
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return data
	}
	for _, k := range keys {
		if v, ok := obj[k]; ok {
			v = bytes.TrimSpace(v)
			if len(v) > 0 && v[0] == '[' {
				return v
			}
		}
	}
	return data
}
