package router

import (
	"time"

	"blogicum/internal/handler"
	"blogicum/internal/middleware"
	"blogicum/internal/pkg"
	"blogicum/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps 组装路由需要的外部依赖
type Deps struct {
	DB             *gorm.DB
	Mailer         pkg.Mailer
	Location       *time.Location
	AllowedOrigins []string
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", "Location", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

func InitRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Metrics(), cors.New(corsConfig(d.AllowedOrigins)))
	r.Use(middleware.Authenticate())
	r.NoRoute(handler.NotFound)

	postSvc := service.NewPostService(d.DB, d.Location)
	emailSvc := service.NewEmailService(d.DB, d.Mailer)
	userSvc := service.NewUserService(d.DB, emailSvc)

	listing := handler.NewListingHandler(postSvc)
	post := handler.NewPostHandler(postSvc)
	comment := handler.NewCommentHandler(service.NewCommentService(d.DB))
	user := handler.NewUserHandler(userSvc)
	email := handler.NewEmailHandler(emailSvc, userSvc)
	admin := handler.NewAdminHandler(service.NewCatalogService(d.DB))

	r.GET("/metrics", middleware.MetricsHandler())

	// 公开页面
	r.GET("/", listing.Index)
	r.GET("/category/:slug/", listing.Category)
	r.GET("/profile/:username/", listing.Profile)
	r.GET("/posts/:post_id/", post.Detail)

	// 登录态页面
	authed := r.Group("/", middleware.LoginRequired())
	{
		authed.POST("/profile/edit_profile/", user.UpdateProfile)
		authed.POST("/posts/", post.Create)
		authed.GET("/posts/:post_id/edit/", post.EditForm)
		authed.POST("/posts/:post_id/edit/", post.Update)
		authed.GET("/posts/:post_id/delete/", post.DeleteForm)
		authed.POST("/posts/:post_id/delete/", post.Delete)
		authed.POST("/posts/:post_id/comment/", comment.Create)
		authed.GET("/posts/:post_id/comments/:comment_id/edit/", comment.EditForm)
		authed.POST("/posts/:post_id/comments/:comment_id/edit/", comment.Update)
		authed.GET("/posts/:post_id/comments/:comment_id/delete/", comment.DeleteForm)
		authed.POST("/posts/:post_id/comments/:comment_id/delete/", comment.Delete)
	}

	// 账号相关接口
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/registration/", user.Register)
		authGroup.POST("/login/", user.Login)
		authGroup.POST("/token/refresh/", user.TokenRefresh)
		authGroup.POST("/password_reset/", email.SendResetCode)
		authGroup.POST("/password_reset/confirm/", email.ResetPassword)
		authGroup.POST("/logout/", middleware.LoginRequired(), user.Logout)
		authGroup.POST("/password_change/", middleware.LoginRequired(), user.ChangePassword)
	}

	// 后台：分类与地点
	adminGroup := r.Group("/admin", middleware.AdminRequired())
	{
		adminGroup.GET("/categories", admin.ListCategories)
		adminGroup.POST("/categories", admin.CreateCategory)
		adminGroup.PUT("/categories/:id", admin.UpdateCategory)
		adminGroup.DELETE("/categories/:id", admin.DeleteCategory)
		adminGroup.GET("/locations", admin.ListLocations)
		adminGroup.POST("/locations", admin.CreateLocation)
		adminGroup.PUT("/locations/:id", admin.UpdateLocation)
		adminGroup.DELETE("/locations/:id", admin.DeleteLocation)
	}

	return r
}
