package pkg

import (
	"errors"
	"fmt"
)

const (
	CodeNotFound        = "NOT_FOUND"
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotAuthor       = "NOT_AUTHOR"
	CodeValidation      = "VALIDATION_ERROR"
	CodeConflict        = "CONFLICT"
	CodeInternal        = "INTERNAL_ERROR"
)

// AppError 业务错误，Code 决定 handler 侧的响应方式
type AppError struct {
	Code    string
	Message string
	Fields  map[string]string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewNotFound(resource string) *AppError {
	return &AppError{Code: CodeNotFound, Message: resource + " not found"}
}

func NewUnauthenticated() *AppError {
	return &AppError{Code: CodeUnauthenticated, Message: "login required"}
}

func NewForbidden(message string) *AppError {
	return &AppError{Code: CodeForbidden, Message: message}
}

// NewNotAuthor 已登录但不是作者，文章类操作据此跳回详情页
func NewNotAuthor() *AppError {
	return &AppError{Code: CodeNotAuthor, Message: "only the author can change this"}
}

// NewValidation 字段级校验错误，fields: 字段名 -> 提示
func NewValidation(fields map[string]string) *AppError {
	return &AppError{Code: CodeValidation, Message: "invalid form data", Fields: fields}
}

func NewConflict(message string) *AppError {
	return &AppError{Code: CodeConflict, Message: message}
}

func NewInternal(err error) *AppError {
	return &AppError{Code: CodeInternal, Message: "internal server error", Err: err}
}

// IsCode 判断 err 链上是否存在指定 Code 的 AppError
func IsCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
