package provider

import (
	"errors"
	"fmt"
)

// ErrShapeMismatch 响应是合法 JSON，但不是期望的结构
var ErrShapeMismatch = errors.New("响应结构不符")

// FetchError 是某个 provider 请求阶段的可追溯错误
type FetchError struct {
	Provider string
	URL      string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("provider=%s url=%s: %v", e.Provider, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// shapeError 标明是哪个字段缺失
func shapeError(field string) error {
	return fmt.Errorf("%w: 缺少 %s", ErrShapeMismatch, field)
}
