package provider

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// 上游字段类型不稳定（同一字段时而数字时而字符串），统一用宽松类型解码，
// 类型不符时取零值而不是让整个响应解码失败。

// flexInt 宽松整数，Set 表示上游确实给了可解析的值
type flexInt struct {
	Value int
	Set   bool
}

func (f *flexInt) UnmarshalJSON(b []byte) error {
	*f = flexInt{}
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	if s == "" || s == "null" {
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		*f = flexInt{Value: n, Set: true}
		return nil
	}
	if x, err := strconv.ParseFloat(s, 64); err == nil {
		*f = flexInt{Value: int(x), Set: true}
	}
	return nil
}

// flexBool 宽松布尔：true / 1 / "1" / "true" 为真
type flexBool bool

func (f *flexBool) UnmarshalJSON(b []byte) error {
	s := strings.ToLower(strings.Trim(string(bytes.TrimSpace(b)), `"`))
	switch s {
	case "true", "1":
		*f = true
	default:
		*f = false
	}
	return nil
}

// flexString 宽松字符串，数字也转成文本
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*f = ""
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err == nil {
			*f = flexString(s)
		}
		return nil
	}
	if b[0] == '{' || b[0] == '[' {
		return nil
	}
	*f = flexString(b)
	return nil
}

// flexStrings 宽松字符串数组，非数组时为空
type flexStrings []string

func (f *flexStrings) UnmarshalJSON(b []byte) error {
	*f = nil
	var raw []flexString
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s != "" {
			out = append(out, string(s))
		}
	}
	*f = out
	return nil
}

// orEmpty 保证 JSON 输出为 [] 而不是 null
func (f flexStrings) orEmpty() []string {
	if f == nil {
		return []string{}
	}
	return []string(f)
}

// rawScalar 原样保留标量（数字或字符串）供输出，对象和数组丢弃
type rawScalar struct {
	v any
}

func (r *rawScalar) UnmarshalJSON(b []byte) error {
	r.v = nil
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] == '{' || b[0] == '[' || bytes.Equal(b, []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err == nil {
		r.v = v
	}
	return nil
}

// value 用于写入 any 字段，缺失时为 nil（配合 omitempty）
func (r rawScalar) value() any {
	return r.v
}

// isArray 判断 raw 是否为 JSON 数组
func isArray(raw json.RawMessage) bool {
	b := bytes.TrimSpace(raw)
	return len(b) > 0 && b[0] == '['
}

// isObject 判断 raw 是否为 JSON 对象
func isObject(raw json.RawMessage) bool {
	b := bytes.TrimSpace(raw)
	return len(b) > 0 && b[0] == '{'
}
