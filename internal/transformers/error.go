package transformers

import "errors"

// Error definitions for the transformers package.
var (
	ErrUnknownClass = errors.New("class is not registered in the transformers library")
	ErrEnvironment  = errors.New("pretrained files are unavailable")
)
