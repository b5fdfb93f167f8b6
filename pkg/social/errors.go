package social

import "errors"

var (
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	ErrNoPlatforms         = errors.New("post has no target platforms")
	ErrEmptyContent        = errors.New("post content is empty")
)
