package service

import (
	"context"
	"errors"

	"blogicum/internal/pkg"
	"blogicum/internal/repository/mysql"
	"blogicum/internal/repository/redis"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type EmailService struct {
	mailer pkg.Mailer
	users  *mysql.UserRepository
	rds    *redis.EmailRepository
}

func NewEmailService(db *gorm.DB, mailer pkg.Mailer) *EmailService {
	return &EmailService{mailer: mailer, users: &mysql.UserRepository{DB: db}, rds: &redis.EmailRepository{}}
}

// SendResetCode 发送重置密码验证码；邮箱未注册时静默返回，不暴露账号是否存在
func (s *EmailService) SendResetCode(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		pkg.Logger.WithField("email", email).Info("password reset for unknown email")
		return nil
	}
	if err != nil {
		return wrap(err)
	}

	code, err := pkg.RandDigits(6)
	if err != nil {
		return wrap(err)
	}

	// 先写入pending键
	if err = s.rds.SetPending(ctx, redis.ScopeReset, email, code); err != nil {
		return wrap(err)
	}

	html := pkg.ResetCodeHTML(user.Username, code, redis.DefaultEmailCodeTTL)
	if err = s.mailer.Send(email, "Password reset code", html); err != nil {
		_ = s.rds.DeletePending(ctx, redis.ScopeReset, email)
		pkg.Logger.WithFields(logrus.Fields{"email": email, "error": err}).Error("send reset code failed")
		return wrap(err)
	}

	// 邮件发送后再将pending转为confirmed
	if err = s.rds.Confirm(ctx, redis.ScopeReset, email); err != nil {
		_ = s.rds.DeletePending(ctx, redis.ScopeReset, email)
		return wrap(err)
	}
	return nil
}

// VerifyCode 校验验证码，成功后一次性删除
func (s *EmailService) VerifyCode(ctx context.Context, scope, email, code string) (bool, error) {
	val, err := s.rds.GetConfirmed(ctx, scope, email)
	if err != nil {
		return false, nil
	}
	if val != code {
		return false, nil
	}
	if err = s.rds.DeleteConfirmed(ctx, scope, email); err != nil {
		return false, wrap(err)
	}
	return true, nil
}
