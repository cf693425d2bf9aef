package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Success 返回成功响应
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Error 返回错误响应，extra 中的字段与 error 并列输出
func Error(c *gin.Context, code int, message string, extra gin.H) {
	body := gin.H{"error": message}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(code, body)
}

// BadRequest 返回400错误
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message, nil)
}

// NotFound 返回404错误
func NotFound(c *gin.Context, message string, extra gin.H) {
	if message == "" {
		message = "资源不存在"
	}
	Error(c, http.StatusNotFound, message, extra)
}

// InternalServerError 返回500错误
func InternalServerError(c *gin.Context, message string, extra gin.H) {
	if message == "" {
		message = "服务器内部错误"
	}
	Error(c, http.StatusInternalServerError, message, extra)
}
