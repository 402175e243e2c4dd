package moby

import "errors"

var ErrMoby = errors.New("docker engine error")
