package auth

import "errors"

var (
	ErrBadCreds   = errors.New("bad credentials")
	ErrNotValid   = errors.New("not valid")
	ErrUnexpected = errors.New("unexpected")
)
