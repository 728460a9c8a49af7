package build

import "errors"

// Sentinel errors classifying run failures. They are always wrapped with
// contextual information at the call site.
var (
	ErrDestinationUncreatable = errors.New("orgbuilder: destination root cannot be created")
	ErrSourceRoot             = errors.New("orgbuilder: source root unusable")
)
