package csvchain

import (
	"bytes"
	"compress/gzip"
	"io"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

func TestCompressionType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		compression CompressionType
		name        string
		extension   string
	}{
		{CompressionNone, "none", ""},
		{CompressionGZ, "gz", ".gz"},
		{CompressionBZ2, "bz2", ".bz2"},
		{CompressionXZ, "xz", ".xz"},
		{CompressionZSTD, "zstd", ".zst"},
		{CompressionType(99), "none", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.name, tt.compression.String())
			assert.Equal(t, tt.extension, tt.compression.Extension())
			assert.Equal(t, tt.extension, NewCompressionHandler(tt.compression).Extension())
		})
	}
}

func TestCompressionFromPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path     string
		expected CompressionType
	}{
		{"data.csv", CompressionNone},
		{"data.csv.gz", CompressionGZ},
		{"DATA.CSV.GZ", CompressionGZ},
		{"data.tsv.bz2", CompressionBZ2},
		{"dir/data.csv.xz", CompressionXZ},
		{"data.csv.zst", CompressionZSTD},
		{"data.gzip", CompressionNone},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, CompressionFromPath(tt.path))
		})
	}
}

func TestCompressionHandler_RoundTrip(t *testing.T) {
	t.Parallel()

	payload := "id,name\r\n1,\"Gopher, G.\"\r\n"

	for _, compression := range []CompressionType{CompressionNone, CompressionGZ, CompressionXZ, CompressionZSTD} {
		t.Run(compression.String(), func(t *testing.T) {
			t.Parallel()

			handler := NewCompressionHandler(compression)

			var buf bytes.Buffer
			w, closeWriter, err := handler.CreateWriter(&buf)
			require.NoError(t, err)
			_, err = io.WriteString(w, payload)
			require.NoError(t, err)
			require.NoError(t, closeWriter())

			if compression != CompressionNone {
				assert.NotEqual(t, payload, buf.String(), "payload should be compressed")
			}

			r, closeReader, err := handler.CreateReader(&buf)
			require.NoError(t, err)
			got, err := io.ReadAll(r)
			require.NoError(t, err)
			require.NoError(t, closeReader())
			assert.Equal(t, payload, string(got))
		})
	}
}

func TestCompressionHandler_ReadsForeignStreams(t *testing.T) {
	t.Parallel()

	payload := "a,b\n1,2\n"

	t.Run("gzip", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		gw := gzip.NewWriter(&buf)
		_, _ = gw.Write([]byte(payload))
		require.NoError(t, gw.Close())

		assertDecompresses(t, CompressionGZ, &buf, payload)
	})

	t.Run("xz", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		xw, err := xz.NewWriter(&buf)
		require.NoError(t, err)
		_, _ = xw.Write([]byte(payload))
		require.NoError(t, xw.Close())

		assertDecompresses(t, CompressionXZ, &buf, payload)
	})

	t.Run("zstd", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		zw, err := zstd.NewWriter(&buf)
		require.NoError(t, err)
		_, _ = zw.Write([]byte(payload))
		require.NoError(t, zw.Close())

		assertDecompresses(t, CompressionZSTD, &buf, payload)
	})
}

func assertDecompresses(t *testing.T, compression CompressionType, src io.Reader, expected string) {
	t.Helper()

	r, closeReader, err := NewCompressionHandler(compression).CreateReader(src)
	require.NoError(t, err)
	defer func() { _ = closeReader() }()

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, expected, string(got))
}

func TestCompressionHandler_Errors(t *testing.T) {
	t.Parallel()

	t.Run("bzip2 cannot be written", func(t *testing.T) {
		t.Parallel()

		_, _, err := NewCompressionHandler(CompressionBZ2).CreateWriter(io.Discard)
		assert.ErrorContains(t, err, "bzip2")
	})

	t.Run("unknown type", func(t *testing.T) {
		t.Parallel()

		handler := NewCompressionHandler(CompressionType(42))
		_, _, err := handler.CreateReader(strings.NewReader(""))
		require.Error(t, err)
		_, _, err = handler.CreateWriter(io.Discard)
		require.Error(t, err)
	})

	t.Run("invalid gzip header", func(t *testing.T) {
		t.Parallel()

		_, _, err := NewCompressionHandler(CompressionGZ).CreateReader(strings.NewReader("not gzip"))
		assert.ErrorContains(t, err, "failed to create gzip reader")
	})

	t.Run("invalid xz header", func(t *testing.T) {
		t.Parallel()

		_, _, err := NewCompressionHandler(CompressionXZ).CreateReader(strings.NewReader("not xz at all"))
		assert.ErrorContains(t, err, "failed to create xz reader")
	})
}
