package social

import "fmt"

// Platform identifies a supported social network.
type Platform string

const (
	PlatformFacebook  Platform = "facebook"
	PlatformTwitter   Platform = "twitter"
	PlatformInstagram Platform = "instagram"
	PlatformLinkedIn  Platform = "linkedin"
)

// Platforms returns the fixed set of supported platforms in canonical order.
func Platforms() []Platform {
	return []Platform{PlatformFacebook, PlatformTwitter, PlatformInstagram, PlatformLinkedIn}
}

// Valid reports whether the platform is one of the supported values.
func (p Platform) Valid() bool {
	switch p {
	case PlatformFacebook, PlatformTwitter, PlatformInstagram, PlatformLinkedIn:
		return true
	}
	return false
}

func (p Platform) String() string {
	return string(p)
}

// ParsePlatform converts a raw string (e.g., a route parameter) into a Platform.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(s)
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedPlatform, s)
	}
	return p, nil
}
