package impl

import "errors"

var (
	ErrEmptyPassword  = errors.New("empty password")
	ErrEmptyUsername  = errors.New("empty username")
	ErrPasswordLength = errors.New("password too short")
	ErrReservedName   = errors.New("username is reserved")
)
