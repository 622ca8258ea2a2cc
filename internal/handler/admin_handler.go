package handler

import (
	"net/http"

	"blogicum/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler 分类与地点的后台维护
type AdminHandler struct {
	svc *service.CatalogService
}

type CategoryReq struct {
	Title       string `json:"title" form:"title" binding:"required,max=256"`
	Description string `json:"description" form:"description" binding:"required"`
	Slug        string `json:"slug" form:"slug" binding:"required,max=64,slug"`
	IsPublished *bool  `json:"is_published" form:"is_published"`
}

type LocationReq struct {
	Name        string `json:"name" form:"name" binding:"required,max=256"`
	IsPublished *bool  `json:"is_published" form:"is_published"`
}

func NewAdminHandler(svc *service.CatalogService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

func (r CategoryReq) input() service.CategoryInput {
	return service.CategoryInput{Title: r.Title, Description: r.Description, Slug: r.Slug, IsPublished: r.IsPublished}
}

func (r LocationReq) input() service.LocationInput {
	return service.LocationInput{Name: r.Name, IsPublished: r.IsPublished}
}

func (h *AdminHandler) ListCategories(c *gin.Context) {
	list, err := h.svc.ListCategories(c.Request.Context())
	if err != nil {
		failJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

func (h *AdminHandler) CreateCategory(c *gin.Context) {
	var req CategoryReq
	if err := bind(c, &req); err != nil {
		failJSON(c, err)
		return
	}
	category, err := h.svc.CreateCategory(c.Request.Context(), req.input())
	if err != nil {
		failJSON(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *AdminHandler) UpdateCategory(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		failJSON(c, err)
		return
	}
	var req CategoryReq
	if err := bind(c, &req); err != nil {
		failJSON(c, err)
		return
	}
	category, err := h.svc.UpdateCategory(c.Request.Context(), id, req.input())
	if err != nil {
		failJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *AdminHandler) DeleteCategory(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		failJSON(c, err)
		return
	}
	if err := h.svc.DeleteCategory(c.Request.Context(), id); err != nil {
		failJSON(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) ListLocations(c *gin.Context) {
	list, err := h.svc.ListLocations(c.Request.Context())
	if err != nil {
		failJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

func (h *AdminHandler) CreateLocation(c *gin.Context) {
	var req LocationReq
	if err := bind(c, &req); err != nil {
		failJSON(c, err)
		return
	}
	location, err := h.svc.CreateLocation(c.Request.Context(), req.input())
	if err != nil {
		failJSON(c, err)
		return
	}
	c.JSON(http.StatusCreated, location)
}

func (h *AdminHandler) UpdateLocation(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		failJSON(c, err)
		return
	}
	var req LocationReq
	if err := bind(c, &req); err != nil {
		failJSON(c, err)
		return
	}
	location, err := h.svc.UpdateLocation(c.Request.Context(), id, req.input())
	if err != nil {
		failJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, location)
}

func (h *AdminHandler) DeleteLocation(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		failJSON(c, err)
		return
	}
	if err := h.svc.DeleteLocation(c.Request.Context(), id); err != nil {
		failJSON(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
