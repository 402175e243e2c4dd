// Package errx provides sentinel-error wrapping helpers.
//
// Errors in this codebase are classified by package-level sentinels
// (e.g. ErrBuild, ErrEngine). Wrap and Wrapf attach a cause to a
// sentinel so that errors.Is matches both the category and the
// underlying error.
package errx

import "fmt"

// Wraps a cause under a sentinel error.
//
// The returned error matches both sentinel and cause under [errors.Is].
func Wrap(sentinel, cause error) error {
	return fmt.Errorf("%w: %w", sentinel, cause)
}

// Wraps a formatted message under a sentinel error.
//
// The format string may itself contain %w verbs to chain further causes.
func Wrapf(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...)
}
