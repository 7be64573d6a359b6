package models

import "errors"

var (
	// ErrNotFound means a referenced story or job id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation means the input was malformed, e.g. out-of-range coordinates.
	ErrValidation = errors.New("invalid argument")
	// ErrUpstream means a transcription, analysis or blob call failed or timed out.
	ErrUpstream = errors.New("upstream service failure")
	// ErrStore means the record store rejected a read or write.
	ErrStore = errors.New("store failure")
)
