package service

import "errors"

var (
	// ErrInvalidRequest 缺少必填参数
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNotFound 所有 provider 都没有该 ID
	ErrNotFound = errors.New("not found")
	// ErrInternal 聚合过程中出现意外错误
	ErrInternal = errors.New("internal error")
)
