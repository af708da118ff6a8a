package videos

import "errors"

var (
	// ErrMediaUnavailable indicates a playable reference does not resolve in this process.
	ErrMediaUnavailable = errors.New("media unavailable")
	// ErrThumbnailUnavailable indicates no still frame could be extracted.
	ErrThumbnailUnavailable = errors.New("thumbnail unavailable")
)
