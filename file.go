package csvchain

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// OpenFile opens path for reading and returns a Reader that owns the file.
// The compression is taken from the extension (.gz, .bz2, .xz, .zst) unless
// overridden with WithCompression. Close the Reader to release the file.
func OpenFile(path string, prefs Preferences, opts ...Option) (*Reader, error) {
	o := newOptions(opts)
	compression := CompressionFromPath(path)
	if o.hasCompression {
		compression = o.compression
	}

	file, err := os.Open(path) //nolint:gosec // User-provided path is necessary for file operations
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	reader, cleanup, err := NewCompressionHandler(compression).CreateReader(file)
	if err != nil {
		_ = file.Close()
		return nil, err
	}

	r := NewReader(reader, prefs, opts...)
	r.closer = func() error {
		cleanupErr := cleanup()
		closeErr := file.Close()
		o.logger.Debug("closed file", slog.String("path", path), slog.Int("rows", r.RowNumber()))
		return errors.Join(cleanupErr, closeErr)
	}
	o.logger.Debug("opened file", slog.String("path", path), slog.String("compression", compression.String()))
	return r, nil
}

// CreateFile creates or truncates path and returns a Writer that owns the
// file. The compression is taken from the extension unless overridden with
// WithCompression. Close the Writer to flush and release the file.
func CreateFile(path string, prefs Preferences, opts ...Option) (*Writer, error) {
	o := newOptions(opts)
	compression := CompressionFromPath(path)
	if o.hasCompression {
		compression = o.compression
	}

	file, err := os.Create(path) //nolint:gosec // User-provided path is necessary for file operations
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	writer, cleanup, err := NewCompressionHandler(compression).CreateWriter(file)
	if err != nil {
		_ = file.Close()
		return nil, err
	}

	w := NewWriter(writer, prefs, opts...)
	w.closer = func() error {
		// The buffered rows are already flushed into the compressor here.
		cleanupErr := cleanup()
		syncErr := file.Sync()
		closeErr := file.Close()
		o.logger.Debug("closed file", slog.String("path", path), slog.Int("rows", w.RowNumber()))
		return errors.Join(cleanupErr, syncErr, closeErr)
	}
	o.logger.Debug("created file", slog.String("path", path), slog.String("compression", compression.String()))
	return w, nil
}

// ReadFile opens path, calls fn with the Reader and closes the file on every
// exit path, including errors and panics inside fn.
func ReadFile(path string, prefs Preferences, fn func(*Reader) error, opts ...Option) (err error) {
	r, err := OpenFile(path, prefs, opts...)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, r.Close())
	}()
	return fn(r)
}

// WriteFile creates path, calls fn with the Writer and flushes and closes the
// file on every exit path.
func WriteFile(path string, prefs Preferences, fn func(*Writer) error, opts ...Option) (err error) {
	w, err := CreateFile(path, prefs, opts...)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, w.Close())
	}()
	return fn(w)
}
