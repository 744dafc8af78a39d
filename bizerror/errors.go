package bizerror

import (
	"errors"
	"net/http"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("record not found")

	ErrUserNotFound        = errors.New("user not found")
	ErrGroupNotFound       = errors.New("group not found")
	ErrRoleNotFound        = errors.New("role not found")
	ErrMemberNotFound      = errors.New("member not found")
	ErrMemberExisted       = errors.New("member already existed")
	ErrRoleNameExisted     = errors.New("role name already existed")
	ErrSystemRoleImmutable = errors.New("system role can not be changed")
	ErrUnknownPermission   = errors.New("unknown permission")
	ErrInvalidPassword     = errors.New("invalid password")
	ErrInvalidArguments    = errors.New("invalid arguments")
)

type BizError interface {
	Respond() *BizErrorDetail
}

type BizErrorDetail struct {
	Status  int
	Code    string
	Message string

	Data  interface{}
	Cause error
}

type ErrBadParam struct {
	Cause error
}

func (e *ErrBadParam) Unwrap() error {
	return e.Cause
}
func (e *ErrBadParam) Error() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "common.bad_param"
}
func (e *ErrBadParam) Respond() *BizErrorDetail {
	message := "common.bad_param"
	if e.Cause != nil {
		message = e.Cause.Error()
	}
	return &BizErrorDetail{Status: http.StatusBadRequest, Code: "common.bad_param", Message: message, Data: nil}
}
