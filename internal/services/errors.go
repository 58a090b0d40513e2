package services

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("资源不存在")
	ErrForbidden = errors.New("无权限访问")
)

// BusinessError 业务规则失败，消息可以原样回给调用方。
// 其余错误一律视为内部错误，只记日志不外露。
type BusinessError struct {
	Message string
}

func (e *BusinessError) Error() string {
	return e.Message
}

func failf(format string, args ...interface{}) error {
	return &BusinessError{Message: fmt.Sprintf(format, args...)}
}
