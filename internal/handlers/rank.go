package handlers

import (
	"net/http"

	"github.com/Longchamps99/list-app-sub001/internal/models"
	"github.com/Longchamps99/list-app-sub001/internal/services"
	"github.com/Longchamps99/list-app-sub001/internal/utils"
	pkgvalidator "github.com/Longchamps99/list-app-sub001/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type RankHandler struct {
	rankService *services.RankService
	validator   *validator.Validate
}

func NewRankHandler(rankService *services.RankService) *RankHandler {
	return &RankHandler{
		rankService: rankService,
		validator:   pkgvalidator.GetValidator(),
	}
}

// Reorder 批量提交排序键，整批原子生效
func (h *RankHandler) Reorder(c *gin.Context) {
	contextID, ok := parseIDParam(c, "contextId")
	if !ok {
		return
	}

	var req models.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请求参数错误")
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationError(c, err.Error())
		return
	}

	if err := h.rankService.Reorder(currentUserID(c), contextID, req.Updates); err != nil {
		serviceError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "排序已保存", nil)
}

func (h *RankHandler) GetOrdered(c *gin.Context) {
	contextID, ok := parseIDParam(c, "contextId")
	if !ok {
		return
	}

	items, err := h.rankService.GetOrdered(currentUserID(c), contextID)
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.Success(c, items)
}
