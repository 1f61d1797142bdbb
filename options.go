package csvchain

import "log/slog"

// options holds the settings shared by Reader, Writer and the file helpers
type options struct {
	logger         *slog.Logger
	compression    CompressionType
	hasCompression bool
}

// Option configures a Reader, a Writer or a file helper
type Option func(*options)

// WithLogger sets the logger receiving debug events. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithCompression overrides the compression detected from the file extension.
// It only affects OpenFile, CreateFile, ReadFile and WriteFile.
func WithCompression(compression CompressionType) Option {
	return func(o *options) {
		o.compression = compression
		o.hasCompression = true
	}
}

func newOptions(opts []Option) *options {
	o := &options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
