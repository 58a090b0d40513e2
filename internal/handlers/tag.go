package handlers

import (
	"github.com/Longchamps99/list-app-sub001/internal/services"
	"github.com/Longchamps99/list-app-sub001/internal/utils"

	"github.com/gin-gonic/gin"
)

type TagHandler struct {
	tagService *services.TagService
}

func NewTagHandler(tagService *services.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

// GetTags 当前用户条目用到的标签及数量
func (h *TagHandler) GetTags(c *gin.Context) {
	tags, err := h.tagService.GetTags(currentUserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.Success(c, tags)
}
