package handler

import (
	"net/http"

	"blogicum/internal/middleware"
	"blogicum/internal/pkg"
	"blogicum/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	svc *service.UserService
}

// RegisterReq 注册请求体
type RegisterReq struct {
	Username  string `json:"username" form:"username" binding:"required,max=150"`
	Email     string `json:"email" form:"email" binding:"required,email,max=254"`
	Password  string `json:"password" form:"password" binding:"required"`
	FirstName string `json:"first_name" form:"first_name" binding:"max=150"`
	LastName  string `json:"last_name" form:"last_name" binding:"max=150"`
}

type LoginReq struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type RefreshReq struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token" binding:"required"`
}

type ChangePasswordReq struct {
	OldPassword string `json:"old_password" form:"old_password" binding:"required"`
	NewPassword string `json:"new_password" form:"new_password" binding:"required"`
}

type ProfileReq struct {
	Username  string `json:"username" form:"username" binding:"required,max=150"`
	Email     string `json:"email" form:"email" binding:"required,email,max=254"`
	FirstName string `json:"first_name" form:"first_name" binding:"max=150"`
	LastName  string `json:"last_name" form:"last_name" binding:"max=150"`
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

func tokens(p *pkg.Pair) gin.H {
	return gin.H{"access_token": p.AccessToken, "refresh_token": p.RefreshToken}
}

// Register 注册成功后跳转登录页
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterReq
	if err := bind(c, &req); err != nil {
		failJSON(c, err)
		return
	}
	user, err := h.svc.Register(c.Request.Context(), service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		failJSON(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "redirect": middleware.LoginPath})
}

// Login 登录接口
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginReq
	if err := bind(c, &req); err != nil {
		failJSON(c, err)
		return
	}
	pair, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		failJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, tokens(pair))
}

func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context(), middleware.ViewerFrom(c).UserID); err != nil {
		failJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// TokenRefresh 利用refresh来更新access
func (h *UserHandler) TokenRefresh(c *gin.Context) {
	var req RefreshReq
	if err := bind(c, &req); err != nil {
		failJSON(c, err)
		return
	}
	pair, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		failJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, tokens(pair))
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordReq
	if err := bind(c, &req); err != nil {
		failJSON(c, err)
		return
	}
	err := h.svc.ChangePassword(c.Request.Context(), middleware.ViewerFrom(c).UserID, req.OldPassword, req.NewPassword)
	if err != nil {
		failJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "password changed, please log in again"})
}

// UpdateProfile 修改成功后跳转到新的主页地址
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req ProfileReq
	if err := bind(c, &req); err != nil {
		fail(c, err)
		return
	}
	user, err := h.svc.UpdateProfile(c.Request.Context(), middleware.ViewerFrom(c), service.ProfileInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": user, "redirect": ProfileURL(user.Username)})
}
