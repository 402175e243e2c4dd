package manifest

import "errors"

var (
	ErrMissingInput = errors.New("missing build input")
	ErrManifest     = errors.New("invalid manifest")
)
