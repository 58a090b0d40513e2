package handlers

import (
	"net/http"

	"github.com/Longchamps99/list-app-sub001/internal/analytics"
	"github.com/Longchamps99/list-app-sub001/internal/models"
	"github.com/Longchamps99/list-app-sub001/internal/services"
	"github.com/Longchamps99/list-app-sub001/internal/utils"
	pkgvalidator "github.com/Longchamps99/list-app-sub001/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type ListHandler struct {
	listService *services.ListService
	analytics   *analytics.Client
	validator   *validator.Validate
}

func NewListHandler(listService *services.ListService, ac *analytics.Client) *ListHandler {
	return &ListHandler{
		listService: listService,
		analytics:   ac,
		validator:   pkgvalidator.GetValidator(),
	}
}

func (h *ListHandler) GetLists(c *gin.Context) {
	lists, err := h.listService.GetLists(currentUserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.Success(c, lists)
}

func (h *ListHandler) CreateList(c *gin.Context) {
	var req models.ListCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请求参数错误")
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationError(c, err.Error())
		return
	}

	list, err := h.listService.CreateList(currentUserID(c), &req)
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "创建成功", list)
}

// ResolveSmartList 按标签组合取或建智能清单，重复解析幂等
func (h *ListHandler) ResolveSmartList(c *gin.Context) {
	var req models.ListResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请求参数错误")
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationError(c, err.Error())
		return
	}

	userID := currentUserID(c)
	list, err := h.listService.Resolve(userID, req.Tags)
	if err != nil {
		businessError(c, err)
		return
	}

	h.analytics.Capture(userID, "smart_list_resolved", map[string]interface{}{
		"list_id":   list.ID,
		"tag_count": len(req.Tags),
	})

	utils.Success(c, list)
}

func (h *ListHandler) Preview(c *gin.Context) {
	var req models.ListPreviewRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请求参数错误")
		return
	}

	preview, err := h.listService.Preview(currentUserID(c), req.Tags)
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.Success(c, preview)
}

func (h *ListHandler) Counts(c *gin.Context) {
	counts, err := h.listService.Counts(currentUserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.Success(c, counts)
}

func (h *ListHandler) GetList(c *gin.Context) {
	listID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	list, err := h.listService.GetList(currentUserID(c), listID)
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.Success(c, list)
}

func (h *ListHandler) UpdateList(c *gin.Context) {
	listID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.ListUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请求参数错误")
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationError(c, err.Error())
		return
	}

	list, err := h.listService.UpdateList(currentUserID(c), listID, &req)
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "更新成功", list)
}

func (h *ListHandler) DeleteList(c *gin.Context) {
	listID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.listService.DeleteList(currentUserID(c), listID); err != nil {
		serviceError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "删除成功", nil)
}

func (h *ListHandler) AddItem(c *gin.Context) {
	listID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}

	if err := h.listService.AddItem(currentUserID(c), listID, itemID); err != nil {
		businessError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "添加成功", nil)
}

func (h *ListHandler) RemoveItem(c *gin.Context) {
	listID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}

	if err := h.listService.RemoveItem(currentUserID(c), listID, itemID); err != nil {
		serviceError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "移除成功", nil)
}
