package utils

import (
	"net/http"
	"strconv"

	"github.com/Longchamps99/list-app-sub001/internal/models"

	"github.com/gin-gonic/gin"
)

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, models.Response{
		Code:    http.StatusOK,
		Message: "成功",
		Data:    data,
	})
}

func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, models.Response{
		Code:    http.StatusOK,
		Message: message,
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, models.Response{
		Code:    code,
		Message: message,
	})
}

func ValidationError(c *gin.Context, errors interface{}) {
	c.JSON(http.StatusBadRequest, models.Response{
		Code:    http.StatusBadRequest,
		Message: "验证失败",
		Errors:  errors,
	})
}

func InternalError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, models.Response{
		Code:    http.StatusInternalServerError,
		Message: "服务器内部错误",
	})
}

func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "资源不存在"
	}
	c.JSON(http.StatusNotFound, models.Response{
		Code:    http.StatusNotFound,
		Message: message,
	})
}

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "未授权访问"
	}
	c.JSON(http.StatusUnauthorized, models.Response{
		Code:    http.StatusUnauthorized,
		Message: message,
	})
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "无权限访问"
	}
	c.JSON(http.StatusForbidden, models.Response{
		Code:    http.StatusForbidden,
		Message: message,
	})
}

func RateLimited(c *gin.Context, retryAfterSeconds int) {
	if retryAfterSeconds < 1 {
		retryAfterSeconds = 1
	}
	c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
	c.JSON(http.StatusTooManyRequests, models.Response{
		Code:    http.StatusTooManyRequests,
		Message: "请求频率过高，请稍后再试",
		Data:    gin.H{"retry_after": retryAfterSeconds},
	})
}
