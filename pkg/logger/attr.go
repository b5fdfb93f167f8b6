package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// UserID records the user identifier under the key "user_id".
// If id is nil, it returns an empty Attr.
func UserID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("user_id", id)
}

// Platform records the social platform under the key "platform".
func Platform(p any) slog.Attr {
	if p == nil {
		return slog.Attr{}
	}
	return slog.Any("platform", p)
}

// PostID records a provider-assigned post identifier under the key "post_id".
func PostID(id string) slog.Attr {
	return slog.String("post_id", id)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
