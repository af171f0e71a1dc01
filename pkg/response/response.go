// Package response 提供统一的 HTTP 响应结构
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
type Response struct {
	// 业务错误码，成功时为空
	Code string `json:"code,omitempty"`
	// 提示信息
	Message string `json:"message"`
	// 响应数据
	Data any `json:"data,omitempty"`
}

// Success 返回成功响应
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{
		Message: "ok",
		Data:    data,
	})
}

// ErrorWithStatus 返回带状态码的错误响应
func ErrorWithStatus(c *gin.Context, status int, message string, code string) {
	c.JSON(status, Response{
		Code:    code,
		Message: message,
	})
}
