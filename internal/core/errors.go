package core

import "errors"

// Error taxonomy for the pipeline. ErrClassification never crosses a
// component boundary: the recognizer absorbs it with the heuristic
// fallback. Generator failures degrade the turn. Only
// ErrVectorStoreUnavailable propagates to the caller.
var (
	ErrClassification         = errors.New("intent classification failed")
	ErrGeneratorTimeout       = errors.New("generator timed out")
	ErrGeneratorUnavailable   = errors.New("generator unavailable")
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")
)
