package handler

import (
	"context"
	"net/http"

	"blogicum/internal/access"
	"blogicum/internal/middleware"
	"blogicum/internal/model"
	"blogicum/internal/service"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	svc *service.PostService
}

// PostReq 文章表单，author 由登录态决定
type PostReq struct {
	Title       string  `json:"title" form:"title" binding:"required,max=256"`
	Text        string  `json:"text" form:"text" binding:"required"`
	PubDate     string  `json:"pub_date" form:"pub_date"`
	LocationID  *uint64 `json:"location_id" form:"location_id"`
	CategoryID  *uint64 `json:"category_id" form:"category_id"`
	Image       string  `json:"image" form:"image" binding:"max=255"`
	IsPublished *bool   `json:"is_published" form:"is_published"`
}

func (r PostReq) input() service.PostInput {
	return service.PostInput{
		Title:       r.Title,
		Text:        r.Text,
		PubDate:     r.PubDate,
		LocationID:  r.LocationID,
		CategoryID:  r.CategoryID,
		Image:       r.Image,
		IsPublished: r.IsPublished,
	}
}

func NewPostHandler(svc *service.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

// Detail 文章详情，附已发布评论与空评论表单
func (h *PostHandler) Detail(c *gin.Context) {
	id, err := idParam(c, "post_id")
	if err != nil {
		fail(c, err)
		return
	}
	res, err := h.svc.Detail(c.Request.Context(), middleware.ViewerFrom(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"post":     res.Post,
		"comments": res.Comments,
		"form":     CommentReq{},
	})
}

// Create 创建成功跳转到作者主页
func (h *PostHandler) Create(c *gin.Context) {
	var req PostReq
	if err := bind(c, &req); err != nil {
		fail(c, err)
		return
	}
	post, err := h.svc.Create(c.Request.Context(), middleware.ViewerFrom(c), req.input())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": post.ID, "redirect": ProfileURL(post.Author.Username)})
}

func (h *PostHandler) EditForm(c *gin.Context) {
	h.form(c, h.svc.EditForm)
}

func (h *PostHandler) DeleteForm(c *gin.Context) {
	h.form(c, h.svc.DeleteForm)
}

func (h *PostHandler) form(c *gin.Context, load func(context.Context, access.Viewer, uint64) (*model.Post, error)) {
	id, err := idParam(c, "post_id")
	if err != nil {
		fail(c, err)
		return
	}
	post, err := load(c.Request.Context(), middleware.ViewerFrom(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"form": post})
}

// Update 成功后回到详情页
func (h *PostHandler) Update(c *gin.Context) {
	id, err := idParam(c, "post_id")
	if err != nil {
		fail(c, err)
		return
	}
	var req PostReq
	if err := bind(c, &req); err != nil {
		fail(c, err)
		return
	}
	post, err := h.svc.Update(c.Request.Context(), middleware.ViewerFrom(c), id, req.input())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": post.ID, "redirect": PostURL(post.ID)})
}

// Delete 成功后跳转到作者主页
func (h *PostHandler) Delete(c *gin.Context) {
	id, err := idParam(c, "post_id")
	if err != nil {
		fail(c, err)
		return
	}
	post, err := h.svc.Delete(c.Request.Context(), middleware.ViewerFrom(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"redirect": ProfileURL(post.Author.Username)})
}
