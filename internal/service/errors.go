package service

import (
	"errors"

	"blogicum/internal/access"
	"blogicum/internal/pkg"

	"gorm.io/gorm"
)

// notFound 把 gorm 的未找到转换为业务 404，其余错误按内部错误处理
func notFound(err error, resource string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkg.NewNotFound(resource)
	}
	return pkg.NewInternal(err)
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	var appErr *pkg.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return pkg.NewInternal(err)
}

// deny 把授权结果翻译成错误，Allowed 返回 nil
func deny(d access.Decision) error {
	switch d {
	case access.RedirectLogin:
		return pkg.NewUnauthenticated()
	case access.RedirectDetail:
		return pkg.NewNotAuthor()
	case access.Forbidden:
		return pkg.NewForbidden("only the author can change this comment")
	}
	return nil
}
