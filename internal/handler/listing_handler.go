package handler

import (
	"net/http"

	"blogicum/internal/listing"
	"blogicum/internal/middleware"
	"blogicum/internal/service"

	"github.com/gin-gonic/gin"
)

// ListingHandler 首页、分类页、个人主页
type ListingHandler struct {
	svc *service.PostService
}

func NewListingHandler(svc *service.PostService) *ListingHandler {
	return &ListingHandler{svc: svc}
}

func (h *ListingHandler) Index(c *gin.Context) {
	page, err := listing.ParsePage(c.Query("page"))
	if err != nil {
		fail(c, err)
		return
	}
	res, err := h.svc.Index(c.Request.Context(), middleware.ViewerFrom(c), page)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ListingHandler) Category(c *gin.Context) {
	page, err := listing.ParsePage(c.Query("page"))
	if err != nil {
		fail(c, err)
		return
	}
	res, err := h.svc.CategoryPosts(c.Request.Context(), c.Param("slug"), page)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ListingHandler) Profile(c *gin.Context) {
	page, err := listing.ParsePage(c.Query("page"))
	if err != nil {
		fail(c, err)
		return
	}
	res, err := h.svc.Profile(c.Request.Context(), middleware.ViewerFrom(c), c.Param("username"), page)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
