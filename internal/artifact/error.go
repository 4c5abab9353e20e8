package artifact

import "errors"

// Error definitions for the artifact package.
var (
	ErrMissingDependency = errors.New("required library is not available")
	ErrNotFound          = errors.New("not found")
	ErrInvalidArgument   = errors.New("invalid argument")
)
