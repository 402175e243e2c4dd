package service

import "errors"

var (
	ErrService  = errors.New("service error")
	ErrNotReady = errors.New("service not ready")
)
