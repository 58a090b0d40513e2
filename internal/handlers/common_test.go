package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Longchamps99/list-app-sub001/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}

func TestBusinessErrorExposesBusinessMessage(t *testing.T) {
	c, w := newTestContext()

	businessError(c, &services.BusinessError{Message: "目标用户不存在"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "目标用户不存在")
}

func TestBusinessErrorHidesInternalFailure(t *testing.T) {
	c, w := newTestContext()

	// 未识别的错误不外露原文，只回通用 500
	businessError(c, errors.New("dial tcp 10.0.0.5:5432: connect: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
	assert.Contains(t, w.Body.String(), "服务器内部错误")
}

func TestBusinessErrorMapsSentinels(t *testing.T) {
	c, w := newTestContext()
	businessError(c, services.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, w.Code)

	c, w = newTestContext()
	businessError(c, services.ErrForbidden)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestServiceErrorHidesInternalFailure(t *testing.T) {
	c, w := newTestContext()

	serviceError(c, errors.New("pq: deadlock detected"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "deadlock")
}
