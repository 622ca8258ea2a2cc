package handler

import (
	"net/http"

	"blogicum/internal/middleware"
	"blogicum/internal/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	svc *service.CommentService
}

type CommentReq struct {
	Text string `json:"text" form:"text" binding:"required"`
}

func NewCommentHandler(svc *service.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

func (h *CommentHandler) ids(c *gin.Context) (postID, commentID uint64, err error) {
	if postID, err = idParam(c, "post_id"); err != nil {
		return
	}
	commentID, err = idParam(c, "comment_id")
	return
}

func (h *CommentHandler) Create(c *gin.Context) {
	postID, err := idParam(c, "post_id")
	if err != nil {
		fail(c, err)
		return
	}
	var req CommentReq
	if err := bind(c, &req); err != nil {
		fail(c, err)
		return
	}
	comment, err := h.svc.Create(c.Request.Context(), middleware.ViewerFrom(c), postID, req.Text)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": comment, "redirect": PostURL(postID)})
}

func (h *CommentHandler) EditForm(c *gin.Context) {
	postID, commentID, err := h.ids(c)
	if err != nil {
		fail(c, err)
		return
	}
	comment, err := h.svc.EditForm(c.Request.Context(), middleware.ViewerFrom(c), postID, commentID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"form": CommentReq{Text: comment.Text}, "comment": comment})
}

func (h *CommentHandler) Update(c *gin.Context) {
	postID, commentID, err := h.ids(c)
	if err != nil {
		fail(c, err)
		return
	}
	var req CommentReq
	if err := bind(c, &req); err != nil {
		fail(c, err)
		return
	}
	comment, err := h.svc.Update(c.Request.Context(), middleware.ViewerFrom(c), postID, commentID, req.Text)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comment": comment, "redirect": PostURL(postID)})
}

// DeleteForm 删除确认页只需要评论本身
func (h *CommentHandler) DeleteForm(c *gin.Context) {
	postID, commentID, err := h.ids(c)
	if err != nil {
		fail(c, err)
		return
	}
	comment, err := h.svc.DeleteForm(c.Request.Context(), middleware.ViewerFrom(c), postID, commentID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

func (h *CommentHandler) Delete(c *gin.Context) {
	postID, commentID, err := h.ids(c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.ViewerFrom(c), postID, commentID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"redirect": PostURL(postID)})
}
