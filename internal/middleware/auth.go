package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"blogicum/internal/access"
	"blogicum/internal/pkg"
	"blogicum/internal/repository/redis"

	"github.com/gin-gonic/gin"
)

const (
	ContextViewerKey = "viewer"
	LoginPath        = "/auth/login/"
)

// Authenticate 解析可选的 Bearer token；缺失或无效时按匿名访问处理
func Authenticate() gin.HandlerFunc {
	sessions := &redis.SessionRepository{}
	return func(c *gin.Context) {
		c.Set(ContextViewerKey, access.Anonymous)

		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}
		tokenStr := parts[1]

		claims, err := pkg.ParseAccess(tokenStr)
		if err != nil {
			c.Next()
			return
		}

		// redis校验是否是当前会话的token，旧 token 视为已登出
		origin, err := sessions.AccessToken(c.Request.Context(), claims.UserID)
		if err != nil || origin != tokenStr {
			c.Next()
			return
		}
		_ = sessions.Extend(c.Request.Context(), claims.UserID)

		c.Set(ContextViewerKey, access.Viewer{UserID: claims.UserID, Role: claims.Role})
		c.Next()
	}
}

// ViewerFrom 取当前访问者，未经过 Authenticate 时为匿名
func ViewerFrom(c *gin.Context) access.Viewer {
	if v, ok := c.Get(ContextViewerKey); ok {
		if viewer, ok := v.(access.Viewer); ok {
			return viewer
		}
	}
	return access.Anonymous
}

// LoginURL 登录页地址，登录后跳回 next
func LoginURL(next string) string {
	return LoginPath + "?next=" + url.QueryEscape(next)
}

// LoginRequired 匿名访问跳转到登录页
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ViewerFrom(c).IsAuthenticated() {
			c.Redirect(http.StatusFound, LoginURL(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminRequired 后台接口：role>=1
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		v := ViewerFrom(c)
		if !v.IsAuthenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": pkg.CodeUnauthenticated, "msg": "login required"})
			return
		}
		if v.Role < 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"code": pkg.CodeForbidden, "msg": "staff only"})
			return
		}
		c.Next()
	}
}
