package model

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// NativeID 上游原生 ID
// 保留解码时的 JSON token（数字或字符串），输出时原样写回
type NativeID struct {
	raw []byte
}

// StringID 用字符串构造 ID
func StringID(s string) NativeID {
	if s == "" {
		return NativeID{}
	}
	return NativeID{raw: []byte(strconv.Quote(s))}
}

// UnmarshalJSON 接受数字或字符串，其它类型视为缺失
func (id *NativeID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	id.raw = nil
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		if s == "" {
			return nil
		}
	case '{', '[', 't', 'f':
		return nil
	default:
		if !json.Valid(b) {
			return nil
		}
	}
	id.raw = append([]byte(nil), b...)
	return nil
}

// MarshalJSON 原样输出
func (id NativeID) MarshalJSON() ([]byte, error) {
	if len(id.raw) == 0 {
		return []byte("null"), nil
	}
	return id.raw, nil
}

// String 返回不带引号的文本
func (id NativeID) String() string {
	if len(id.raw) == 0 {
		return ""
	}
	if id.raw[0] == '"' {
		s, err := strconv.Unquote(string(id.raw))
		if err != nil {
			return ""
		}
		return s
	}
	return string(id.raw)
}

// IsZero 缺失、空串或 0 都视为没有身份
func (id NativeID) IsZero() bool {
	s := id.String()
	return s == "" || s == "0"
}

// AsNumber 字符串形式的数字转成数字 token，非数字保持不变
func (id NativeID) AsNumber() NativeID {
	s := id.String()
	if s == "" {
		return id
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil || !json.Valid([]byte(s)) {
		return id
	}
	return NativeID{raw: []byte(s)}
}
