package handler

import (
	"net/http"

	"blogicum/internal/service"

	"github.com/gin-gonic/gin"
)

// EmailHandler 通过邮件验证码找回密码
type EmailHandler struct {
	emailSvc *service.EmailService
	userSvc  *service.UserService
}

type SendCodeReq struct {
	Email string `json:"email" form:"email" binding:"required,email"`
}

type ResetReq struct {
	Email       string `json:"email" form:"email" binding:"required,email"`
	Code        string `json:"code" form:"code" binding:"required,len=6"`
	NewPassword string `json:"new_password" form:"new_password" binding:"required"`
}

func NewEmailHandler(emailSvc *service.EmailService, userSvc *service.UserService) *EmailHandler {
	return &EmailHandler{emailSvc: emailSvc, userSvc: userSvc}
}

// SendResetCode 无论邮箱是否注册都返回同样的结果
func (h *EmailHandler) SendResetCode(c *gin.Context) {
	var req SendCodeReq
	if err := bind(c, &req); err != nil {
		failJSON(c, err)
		return
	}
	if err := h.emailSvc.SendResetCode(c.Request.Context(), req.Email); err != nil {
		failJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "if the address is registered, a code has been sent"})
}

func (h *EmailHandler) ResetPassword(c *gin.Context) {
	var req ResetReq
	if err := bind(c, &req); err != nil {
		failJSON(c, err)
		return
	}
	if err := h.userSvc.ResetPassword(c.Request.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		failJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "password has been reset"})
}
