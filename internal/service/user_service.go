package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"blogicum/internal/access"
	"blogicum/internal/model"
	"blogicum/internal/pkg"
	"blogicum/internal/repository/mysql"
	"blogicum/internal/repository/redis"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLen = 8

type UserService struct {
	repo     *mysql.UserRepository
	sessions *redis.SessionRepository
	emailSvc *EmailService
	hashCost int
}

type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type ProfileInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
}

func NewUserService(db *gorm.DB, emailSvc *EmailService) *UserService {
	return &UserService{
		repo:     &mysql.UserRepository{DB: db},
		sessions: &redis.SessionRepository{},
		emailSvc: emailSvc,
		hashCost: bcrypt.DefaultCost,
	}
}

// checkIdentity 校验用户名与邮箱格式及唯一性，exceptID 为当前用户
func (s *UserService) checkIdentity(ctx context.Context, username, email string, exceptID uint64, fields map[string]string) error {
	if username == "" {
		fields["username"] = "this field is required"
	} else if taken, err := s.repo.Taken(ctx, "username", username, exceptID); err != nil {
		return wrap(err)
	} else if taken {
		fields["username"] = "a user with that username already exists"
	}
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		fields["email"] = "enter a valid email address"
	} else if taken, err := s.repo.Taken(ctx, "email", email, exceptID); err != nil {
		return wrap(err)
	} else if taken {
		fields["email"] = "a user with that email already exists"
	}
	return nil
}

func checkPassword(field, password string, fields map[string]string) {
	if len(password) < minPasswordLen {
		fields[field] = "this password is too short"
	}
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	fields := map[string]string{}
	if err := s.checkIdentity(ctx, in.Username, in.Email, 0, fields); err != nil {
		return nil, err
	}
	checkPassword("password", in.Password, fields)
	if len(fields) > 0 {
		return nil, pkg.NewValidation(fields)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, wrap(err)
	}
	user := &model.User{
		Username:  in.Username,
		Email:     in.Email,
		Password:  string(hash),
		FirstName: in.FirstName,
		LastName:  in.LastName,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, wrap(err)
	}
	return user, nil
}

// Login 用户名或邮箱登录，新 token 覆盖旧会话
func (s *UserService) Login(ctx context.Context, login, password string) (*pkg.Pair, error) {
	invalid := pkg.NewValidation(map[string]string{"login": "please enter a correct username and password"})
	user, err := s.repo.FindByLogin(ctx, strings.TrimSpace(login))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, invalid
	}
	if err != nil {
		return nil, wrap(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, invalid
	}
	return s.issue(ctx, user)
}

func (s *UserService) issue(ctx context.Context, user *model.User) (*pkg.Pair, error) {
	pair, err := pkg.GeneratePair(user.ID, user.Role)
	if err != nil {
		return nil, wrap(err)
	}
	if err := s.sessions.Save(ctx, user.ID, pair.AccessToken, pair.RefreshToken); err != nil {
		return nil, wrap(err)
	}
	return pair, nil
}

func (s *UserService) Logout(ctx context.Context, usrID uint64) error {
	return wrap(s.sessions.Delete(ctx, usrID))
}

// Refresh refresh token 必须与会话中保存的一致
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*pkg.Pair, error) {
	claims, err := pkg.ParseRefresh(refreshToken)
	if err != nil {
		return nil, &pkg.AppError{Code: pkg.CodeUnauthenticated, Message: err.Error()}
	}
	stored, err := s.sessions.RefreshToken(ctx, claims.UserID)
	if err != nil || stored != refreshToken {
		return nil, pkg.NewUnauthenticated()
	}
	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return s.issue(ctx, user)
}

// ChangePassword 登录态修改密码，成功后注销当前会话
func (s *UserService) ChangePassword(ctx context.Context, usrID uint64, oldPassword, newPassword string) error {
	user, err := s.repo.FindByID(ctx, usrID)
	if err != nil {
		return notFound(err, "user")
	}
	fields := map[string]string{}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)) != nil {
		fields["old_password"] = "your old password was entered incorrectly"
	}
	checkPassword("new_password", newPassword, fields)
	if len(fields) > 0 {
		return pkg.NewValidation(fields)
	}
	if err := s.setPassword(ctx, user, newPassword); err != nil {
		return err
	}
	return s.Logout(ctx, usrID)
}

func (s *UserService) setPassword(ctx context.Context, user *model.User, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return wrap(err)
	}
	return wrap(s.repo.UpdatePassword(ctx, user, string(hash)))
}

// UpdateProfile 只能修改自己的资料
func (s *UserService) UpdateProfile(ctx context.Context, v access.Viewer, in ProfileInput) (*model.User, error) {
	if !v.IsAuthenticated() {
		return nil, pkg.NewUnauthenticated()
	}
	user, err := s.repo.FindByID(ctx, v.UserID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	fields := map[string]string{}
	if err := s.checkIdentity(ctx, in.Username, in.Email, user.ID, fields); err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		return nil, pkg.NewValidation(fields)
	}
	user.Username = in.Username
	user.Email = in.Email
	user.FirstName = in.FirstName
	user.LastName = in.LastName
	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		return nil, wrap(err)
	}
	return user, nil
}

// ResetPassword 邮件验证码重置密码，并使已有会话失效
func (s *UserService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	fields := map[string]string{}
	checkPassword("new_password", newPassword, fields)
	if len(fields) > 0 {
		return pkg.NewValidation(fields)
	}
	ok, err := s.emailSvc.VerifyCode(ctx, redis.ScopeReset, email, code)
	if err != nil {
		return err
	}
	if !ok {
		return pkg.NewValidation(map[string]string{"code": "invalid or expired code"})
	}
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return notFound(err, "user")
	}
	if err := s.setPassword(ctx, user, newPassword); err != nil {
		return err
	}
	return s.Logout(ctx, user.ID)
}
