package handler

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"blogicum/internal/middleware"
	"blogicum/internal/pkg"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var slugRe = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		// 错误字段名使用 json tag
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return slugRe.MatchString(fl.Field().String())
		})
	}
}

func ProfileURL(username string) string {
	return "/profile/" + username + "/"
}

func PostURL(postID uint64) string {
	return fmt.Sprintf("/posts/%d/", postID)
}

// bind 同时支持 JSON 与表单提交，校验失败统一转为字段级错误
func bind(c *gin.Context, req any) error {
	err := c.ShouldBind(req)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		fields := make(map[string]string, len(ve))
		for _, fe := range ve {
			fields[fe.Field()] = fieldMessage(fe)
		}
		return pkg.NewValidation(fields)
	}
	return pkg.NewValidation(map[string]string{"body": "malformed request body"})
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "max":
		return "ensure this value has at most " + fe.Param() + " characters"
	case "min":
		return "ensure this value has at least " + fe.Param() + " characters"
	case "len":
		return "ensure this value has exactly " + fe.Param() + " characters"
	case "email":
		return "enter a valid email address"
	case "slug":
		return "enter a valid slug consisting of letters, numbers, underscores or hyphens"
	}
	return "invalid value"
}

// idParam 路径中的 id 非法时按 404 处理
func idParam(c *gin.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, pkg.NewNotFound(strings.TrimSuffix(name, "_id"))
	}
	return id, nil
}

// fail 页面类接口的错误出口：未登录跳登录页，非作者跳回文章详情
func fail(c *gin.Context, err error) {
	var appErr *pkg.AppError
	if !errors.As(err, &appErr) {
		appErr = pkg.NewInternal(err)
	}
	switch appErr.Code {
	case pkg.CodeUnauthenticated:
		c.Redirect(http.StatusFound, middleware.LoginURL(c.Request.URL.RequestURI()))
		return
	case pkg.CodeNotAuthor:
		if id, e := idParam(c, "post_id"); e == nil {
			c.Redirect(http.StatusFound, PostURL(id))
			return
		}
	}
	failJSON(c, appErr)
}

// failJSON 认证与后台接口的错误出口，一律返回 JSON
func failJSON(c *gin.Context, err error) {
	var appErr *pkg.AppError
	if !errors.As(err, &appErr) {
		appErr = pkg.NewInternal(err)
	}
	body := gin.H{"code": appErr.Code, "msg": appErr.Message}
	switch appErr.Code {
	case pkg.CodeNotFound:
		c.JSON(http.StatusNotFound, body)
	case pkg.CodeUnauthenticated:
		c.JSON(http.StatusUnauthorized, body)
	case pkg.CodeForbidden, pkg.CodeNotAuthor:
		c.JSON(http.StatusForbidden, body)
	case pkg.CodeValidation:
		body["fields"] = appErr.Fields
		c.JSON(http.StatusBadRequest, body)
	case pkg.CodeConflict:
		c.JSON(http.StatusConflict, body)
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": pkg.CodeInternal, "msg": "internal server error"})
	}
}

// NotFound 未匹配路由
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"code": pkg.CodeNotFound, "msg": "page not found"})
}
