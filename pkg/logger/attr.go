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

// Component records the emitting component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Limiter records a rate limiter instance name under the key "limiter".
func Limiter(name string) slog.Attr {
	return slog.String("limiter", name)
}

// Form records the form type being processed under the key "form".
func Form(name string) slog.Attr {
	return slog.String("form", name)
}
