package handlers

import (
	"net/http"

	"github.com/Longchamps99/list-app-sub001/internal/analytics"
	"github.com/Longchamps99/list-app-sub001/internal/enrich"
	"github.com/Longchamps99/list-app-sub001/internal/models"
	"github.com/Longchamps99/list-app-sub001/internal/services"
	"github.com/Longchamps99/list-app-sub001/internal/utils"
	pkgvalidator "github.com/Longchamps99/list-app-sub001/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type ItemHandler struct {
	itemService   *services.ItemService
	importService *services.ImportService
	enrichClient  *enrich.Client
	analytics     *analytics.Client
	validator     *validator.Validate
}

func NewItemHandler(itemService *services.ItemService, importService *services.ImportService, enrichClient *enrich.Client, ac *analytics.Client) *ItemHandler {
	return &ItemHandler{
		itemService:   itemService,
		importService: importService,
		enrichClient:  enrichClient,
		analytics:     ac,
		validator:     pkgvalidator.GetValidator(),
	}
}

func (h *ItemHandler) GetItems(c *gin.Context) {
	var req models.ItemListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请求参数错误")
		return
	}

	if req.Page == 0 {
		req.Page = 1
	}
	if req.Limit == 0 {
		req.Limit = 20
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationError(c, err.Error())
		return
	}

	items, pagination, err := h.itemService.GetItems(currentUserID(c), &req)
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.Success(c, gin.H{
		"items":      items,
		"pagination": pagination,
	})
}

func (h *ItemHandler) GetSharedWithMe(c *gin.Context) {
	items, err := h.itemService.GetSharedWithMe(currentUserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.Success(c, items)
}

func (h *ItemHandler) CreateItem(c *gin.Context) {
	var req models.ItemCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请求参数错误")
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationError(c, err.Error())
		return
	}

	item, err := h.itemService.CreateItem(currentUserID(c), &req)
	if err != nil {
		businessError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "创建成功", item)
}

func (h *ItemHandler) GetItem(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := h.itemService.GetItem(currentUserID(c), itemID)
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.Success(c, item)
}

func (h *ItemHandler) UpdateItem(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.ItemUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请求参数错误")
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationError(c, err.Error())
		return
	}

	item, err := h.itemService.UpdateItem(currentUserID(c), itemID, &req)
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "更新成功", item)
}

func (h *ItemHandler) SetChecked(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		IsChecked bool `json:"is_checked"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请求参数错误")
		return
	}

	if err := h.itemService.SetChecked(currentUserID(c), itemID, req.IsChecked); err != nil {
		serviceError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "更新成功", nil)
}

func (h *ItemHandler) DeleteItem(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.itemService.DeleteItem(currentUserID(c), itemID); err != nil {
		serviceError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "删除成功", nil)
}

func (h *ItemHandler) GetUserStats(c *gin.Context) {
	stats, err := h.itemService.GetUserStats(currentUserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.Success(c, stats)
}

func (h *ItemHandler) ImportItems(c *gin.Context) {
	var req models.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请求参数错误")
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationError(c, err.Error())
		return
	}

	items, err := h.importService.Import(currentUserID(c), req.ContextID, req.Items)
	if err != nil {
		businessError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "导入成功", items)
}

// Enrich 建条目前向外部服务查询候选元数据
func (h *ItemHandler) Enrich(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		utils.Error(c, http.StatusBadRequest, "缺少查询参数")
		return
	}

	candidate, err := h.enrichClient.Lookup(c.Request.Context(), query)
	if err == enrich.ErrNotConfigured {
		utils.Error(c, http.StatusServiceUnavailable, "内容补全服务未配置")
		return
	}
	if err != nil {
		serviceError(c, err)
		return
	}

	h.analytics.Capture(currentUserID(c), "item_enriched", map[string]interface{}{
		"query": query,
		"hit":   candidate != nil,
	})

	utils.Success(c, candidate)
}
