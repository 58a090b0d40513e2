package handlers

import (
	"net/http"

	"github.com/Longchamps99/list-app-sub001/internal/config"
	"github.com/Longchamps99/list-app-sub001/internal/models"
	"github.com/Longchamps99/list-app-sub001/internal/services"
	"github.com/Longchamps99/list-app-sub001/internal/utils"
	pkgvalidator "github.com/Longchamps99/list-app-sub001/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// 无论邮箱是否存在都回这一句，防止账号枚举
const tokenSentMessage = "如果该邮箱已注册，邮件已发送"

type AuthHandler struct {
	authService *services.AuthService
	config      *config.Config
	validator   *validator.Validate
}

func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		config:      cfg,
		validator:   pkgvalidator.GetValidator(),
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.UserRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请求参数错误")
		return
	}

	// 验证请求参数
	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationError(c, err.Error())
		return
	}

	// 注册用户
	user, err := h.authService.Register(&req)
	if err != nil {
		businessError(c, err)
		return
	}

	// 生成 JWT Token
	token, err := utils.GenerateToken(
		user.ID, user.Username, user.Email,
		h.config.JWT.Secret, h.config.JWT.ExpireHours)
	if err != nil {
		utils.InternalError(c)
		return
	}

	utils.SuccessWithMessage(c, "注册成功", models.UserResponse{
		User:  user,
		Token: token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请求参数错误")
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationError(c, err.Error())
		return
	}

	user, err := h.authService.Login(&req)
	if err != nil {
		businessError(c, err)
		return
	}

	token, err := utils.GenerateToken(
		user.ID, user.Username, user.Email,
		h.config.JWT.Secret, h.config.JWT.ExpireHours)
	if err != nil {
		utils.InternalError(c)
		return
	}

	utils.SuccessWithMessage(c, "登录成功", models.UserResponse{
		User:  user,
		Token: token,
	})
}

func (h *AuthHandler) GetMe(c *gin.Context) {
	user, err := h.authService.GetUserByID(currentUserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.Success(c, user)
}

func (h *AuthHandler) DeleteMe(c *gin.Context) {
	if err := h.authService.DeleteAccount(currentUserID(c)); err != nil {
		serviceError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "账号已注销", nil)
}

func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req models.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请求参数错误")
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationError(c, err.Error())
		return
	}

	if err := h.authService.RequestPasswordReset(req.Email); err != nil {
		utils.InternalError(c)
		return
	}

	utils.SuccessWithMessage(c, tokenSentMessage, nil)
}

func (h *AuthHandler) ConfirmPasswordReset(c *gin.Context) {
	var req models.PasswordResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请求参数错误")
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationError(c, err.Error())
		return
	}

	if err := h.authService.ConfirmPasswordReset(req.Token, req.Password); err != nil {
		businessError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "密码重置成功", nil)
}

func (h *AuthHandler) RequestVerification(c *gin.Context) {
	var req models.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请求参数错误")
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationError(c, err.Error())
		return
	}

	if err := h.authService.RequestVerification(req.Email); err != nil {
		utils.InternalError(c)
		return
	}

	utils.SuccessWithMessage(c, tokenSentMessage, nil)
}

func (h *AuthHandler) ConfirmVerification(c *gin.Context) {
	var req models.VerifyConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请求参数错误")
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationError(c, err.Error())
		return
	}

	if err := h.authService.ConfirmVerification(req.Token); err != nil {
		businessError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "邮箱验证成功", nil)
}
