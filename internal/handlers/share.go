package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Longchamps99/list-app-sub001/internal/config"
	"github.com/Longchamps99/list-app-sub001/internal/models"
	"github.com/Longchamps99/list-app-sub001/internal/services"
	"github.com/Longchamps99/list-app-sub001/internal/utils"
	pkgvalidator "github.com/Longchamps99/list-app-sub001/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type ShareHandler struct {
	shareService *services.ShareService
	validator    *validator.Validate
	config       *config.Config
}

func NewShareHandler(shareService *services.ShareService, cfg *config.Config) *ShareHandler {
	return &ShareHandler{
		shareService: shareService,
		validator:    pkgvalidator.GetValidator(),
		config:       cfg,
	}
}

func (h *ShareHandler) ShareItem(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.ShareCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请求参数错误")
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationError(c, err.Error())
		return
	}

	share, err := h.shareService.ShareItem(currentUserID(c), itemID, req.Email)
	if err != nil {
		businessError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "共享成功", share)
}

func (h *ShareHandler) UnshareItem(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.ShareCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请求参数错误")
		return
	}

	if err := h.shareService.UnshareItem(currentUserID(c), itemID, req.Email); err != nil {
		businessError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "已取消共享", nil)
}

func (h *ShareHandler) ShareList(c *gin.Context) {
	listID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.ShareCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请求参数错误")
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationError(c, err.Error())
		return
	}

	share, err := h.shareService.ShareList(currentUserID(c), listID, req.Email)
	if err != nil {
		businessError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "共享成功", share)
}

func (h *ShareHandler) UnshareList(c *gin.Context) {
	listID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.ShareCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请求参数错误")
		return
	}

	if err := h.shareService.UnshareList(currentUserID(c), listID, req.Email); err != nil {
		businessError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "已取消共享", nil)
}

// CreateItemToken 条目分享令牌。未授权一律回 404，
// 不向调用方确认条目是否存在。
func (h *ShareHandler) CreateItemToken(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	token, err := h.shareService.CreateToken(currentUserID(c), models.ShareTokenKindItem, itemID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) || errors.Is(err, services.ErrForbidden) {
			utils.NotFound(c, "")
			return
		}
		serviceError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "分享链接创建成功", models.ShareTokenResponse{
		Token:     token.Token,
		ShareURL:  fmt.Sprintf("%s/shared/%s", h.config.Frontend.BaseURL, token.Token),
		ExpiresAt: token.ExpiresAt,
	})
}

func (h *ShareHandler) CreateListToken(c *gin.Context) {
	listID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	token, err := h.shareService.CreateToken(currentUserID(c), models.ShareTokenKindList, listID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) || errors.Is(err, services.ErrForbidden) {
			utils.NotFound(c, "")
			return
		}
		serviceError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "分享链接创建成功", models.ShareTokenResponse{
		Token:     token.Token,
		ShareURL:  fmt.Sprintf("%s/shared/%s", h.config.Frontend.BaseURL, token.Token),
		ExpiresAt: token.ExpiresAt,
	})
}

// RedeemToken 匿名兑换分享令牌，任何失败都只回 404
func (h *ShareHandler) RedeemToken(c *gin.Context) {
	tokenString := c.Param("token")
	if tokenString == "" {
		utils.NotFound(c, "")
		return
	}

	entity, err := h.shareService.Redeem(tokenString)
	if err != nil {
		utils.NotFound(c, "")
		return
	}

	utils.Success(c, entity)
}
