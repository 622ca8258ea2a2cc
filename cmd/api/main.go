package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blogicum/internal/config"
	"blogicum/internal/pkg"
	"blogicum/internal/repository/mysql"
	"blogicum/internal/repository/redis"
	"blogicum/internal/router"
	"blogicum/internal/service"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		pkg.Logger.WithError(err).Fatal("load config")
	}
	if err := cfg.Validate(); err != nil {
		pkg.Logger.WithError(err).Fatal("invalid config")
	}
	pkg.InitLogger(cfg.LogLevel)
	pkg.SetSecrets(cfg.JWTAccessSecret, cfg.JWTRefreshSecret)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = pkg.GinWriter()

	if err := mysql.InitDB(cfg.MySQLDSN); err != nil {
		pkg.Logger.WithError(err).Fatal("connect mysql")
	}
	defer mysql.Close()

	// 自动建表
	if err := mysql.Migrate(mysql.DB); err != nil {
		pkg.Logger.WithError(err).Fatal("migrate")
	}

	// 连接redis
	if err := redis.Init(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); err != nil {
		pkg.Logger.WithError(err).Fatal("connect redis")
	}
	defer redis.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 未配置 broker 时事件只写日志
	sender := service.LogSender
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		producer := pkg.NewKafkaProducer(pkg.KafkaConfig{Brokers: brokers, Topic: cfg.KafkaTopic})
		defer producer.Close()
		sender = service.KafkaSender(producer)
	}
	go service.NewOutboxRelayer(mysql.DB, sender).Run(ctx)

	mailer := pkg.NewSMTPMailer(pkg.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})

	r := router.InitRouter(router.Deps{
		DB:             mysql.DB,
		Mailer:         mailer,
		Location:       cfg.Location(),
		AllowedOrigins: cfg.Origins(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		pkg.Logger.WithField("addr", srv.Addr).Info("http server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			pkg.Logger.WithError(err).Fatal("http server")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		pkg.Logger.WithError(err).Error("http server shutdown")
	}
	pkg.Logger.Info("bye")
}
