package domain

import "errors"

var (
	ErrInvalidAdminKey = errors.New("invalid admin key")
	ErrUnauthenticated = errors.New("not authenticated")
	ErrTokenRevoked    = errors.New("token revoked")
	ErrForbidden       = errors.New("admin access required")
)
