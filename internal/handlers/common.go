package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Longchamps99/list-app-sub001/internal/services"
	"github.com/Longchamps99/list-app-sub001/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// currentUserID 取认证中间件写入的操作主体
func currentUserID(c *gin.Context) uint {
	userID, _ := c.Get("user_id")
	return userID.(uint)
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	idStr := c.Param(name)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "无效的ID")
		return 0, false
	}
	return uint(id), true
}

// serviceError 按错误分类映射状态码；
// 未识别的错误记完整日志，对外只回通用 500
func serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		utils.NotFound(c, "")
	case errors.Is(err, services.ErrForbidden):
		utils.Forbidden(c, "")
	default:
		logrus.WithError(err).WithField("path", c.FullPath()).Error("请求处理失败")
		utils.InternalError(c)
	}
}

// businessError 同 serviceError，但业务规则失败的消息当 400 回给调用方。
// 只有显式标记的业务错误才外露消息，其余仍走通用 500。
func businessError(c *gin.Context, err error) {
	var bizErr *services.BusinessError
	if errors.As(err, &bizErr) {
		utils.Error(c, http.StatusBadRequest, bizErr.Message)
		return
	}
	serviceError(c, err)
}
