package internal

import "errors"

var ErrSettings = errors.New("invalid settings")
