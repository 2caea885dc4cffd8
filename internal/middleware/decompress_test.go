package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"costlens/config"
	cErr "costlens/internal/pkg/error"
	"costlens/internal/telemetry"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const batchJSON = `{"logs":[{"provider":"openai","endpoint":"/v1/chat","feature":"chat"}]}`

func compress(t *testing.T, encoding string, raw []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	var w io.WriteCloser
	switch encoding {
	case "gzip":
		w = gzip.NewWriter(&buf)
	case "deflate":
		w = zlib.NewWriter(&buf)
	case "br":
		w = brotli.NewWriter(&buf)
	case "zstd":
		enc, err := zstd.NewWriter(nil)
		require.NoError(t, err)
		defer enc.Close()
		return enc.EncodeAll(raw, nil)
	default:
		t.Fatalf("unknown encoding %s", encoding)
	}
	_, err := w.Write(raw)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func decompressEngine(t *testing.T, ingest config.Ingest) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	trace, err := telemetry.NewTrace(nil)
	require.NoError(t, err)
	d := NewDecompress(zap.NewNop(), trace, &config.Configuration{Ingest: ingest})

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Next()
		if len(c.Errors) > 0 {
			appErr := cErr.From(c.Errors.Last().Err)
			c.String(appErr.HttpCode(), appErr.ErrorDesc())
		}
	})
	r.POST("/bulk", d.Body(), func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		c.Header("X-Seen-Encoding", c.GetHeader("Content-Encoding"))
		c.String(http.StatusOK, string(body))
	})
	return r
}

func post(r *gin.Engine, encoding string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/bulk", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if encoding != "" {
		req.Header.Set("Content-Encoding", encoding)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestDecompressEncodings(t *testing.T) {
	r := decompressEngine(t, config.Ingest{})
	for _, encoding := range []string{"gzip", "deflate", "br", "zstd"} {
		t.Run(encoding, func(t *testing.T) {
			w := post(r, encoding, compress(t, encoding, []byte(batchJSON)))
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, batchJSON, w.Body.String())
			assert.Empty(t, w.Header().Get("X-Seen-Encoding"))
		})
	}
}

func TestDecompressPassThrough(t *testing.T) {
	r := decompressEngine(t, config.Ingest{})

	w := post(r, "", []byte(batchJSON))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, batchJSON, w.Body.String())

	w = post(r, "Identity", []byte(batchJSON))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, batchJSON, w.Body.String())
}

func TestDecompressRejects(t *testing.T) {
	r := decompressEngine(t, config.Ingest{MaxBodyBytes: 16})

	w := post(r, "compress", []byte("whatever"))
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	assert.Contains(t, w.Body.String(), "compress")

	w = post(r, "gzip", []byte("not gzip at all"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "malformed gzip")

	// 解開後超過上限
	w = post(r, "br", compress(t, "br", []byte(strings.Repeat("a", 64))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "16 bytes")
}
