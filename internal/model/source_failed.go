package model

import (
	"bytes"
	"encoding/json"
)

// SourceFailed 按 provider 记录"是否不可达"
// 保持插入顺序输出，便于调用方阅读
type SourceFailed struct {
	order []string
	flags map[string]bool
}

// NewSourceFailed 所有 provider 初始为 false
func NewSourceFailed(providers ...string) *SourceFailed {
	sf := &SourceFailed{flags: make(map[string]bool, len(providers))}
	for _, p := range providers {
		sf.Set(p, false)
	}
	return sf
}

// Set 设置标记
func (sf *SourceFailed) Set(provider string, failed bool) {
	if sf.flags == nil {
		sf.flags = make(map[string]bool)
	}
	if _, ok := sf.flags[provider]; !ok {
		sf.order = append(sf.order, provider)
	}
	sf.flags[provider] = failed
}

// Get 读取标记，未登记的 provider 返回 false
func (sf *SourceFailed) Get(provider string) bool {
	if sf == nil {
		return false
	}
	return sf.flags[provider]
}

// Map 拷贝为普通 map
func (sf *SourceFailed) Map() map[string]bool {
	out := make(map[string]bool, len(sf.order))
	for _, p := range sf.order {
		out[p] = sf.flags[p]
	}
	return out
}

// MarshalJSON 按登记顺序输出对象
func (sf *SourceFailed) MarshalJSON() ([]byte, error) {
	if sf == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range sf.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if sf.flags[p] {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
