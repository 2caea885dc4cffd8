package middleware

import (
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"

	"costlens/config"
	"costlens/internal/core"
	cErr "costlens/internal/pkg/error"
	"costlens/internal/pkg/response"
	"costlens/internal/telemetry"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"
)

var (
	errUnsupportedEncoding = errors.New("unsupported content encoding")
	errBodyTooLarge        = errors.New("decoded body exceeds limit")
)

// Decompress 解開 SDK 批次上傳的壓縮 body，之後的 bind 只看得到 JSON
type Decompress struct {
	logger *zap.Logger
	trace  *telemetry.Trace
	conf   *config.Configuration
}

func NewDecompress(logger *zap.Logger, trace *telemetry.Trace, conf *config.Configuration) *Decompress {
	return &Decompress{logger: logger, trace: trace, conf: conf}
}

func (middleware *Decompress) Body() gin.HandlerFunc {
	return func(c *gin.Context) {
		encoding := strings.ToLower(strings.TrimSpace(c.GetHeader("Content-Encoding")))
		if encoding == "" || encoding == "identity" || c.Request.Body == nil {
			c.Next()
			return
		}

		_, span, end := middleware.trace.WithSpan(c.Request.Context(), string(core.SpanDecompressMiddleware))
		limit := middleware.conf.Ingest.MaxBodyBytesOrDefault()
		body, err := decodeBody(encoding, c.Request.Body, limit)
		_ = c.Request.Body.Close()
		if err != nil {
			appErr := decodeError(encoding, limit, err)
			middleware.logger.Warn("failed to decode request body",
				zap.String("encoding", encoding),
				zap.String("path", c.Request.URL.Path),
				zap.Error(err))
			end(appErr)
			response.AbortWithError(c, appErr)
			return
		}

		middleware.trace.ApplyTraceAttributes(span, core.TraceDecompressMeta{
			Encoding:     encoding,
			EncodedBytes: c.Request.ContentLength,
			DecodedBytes: len(body),
		})
		end(nil)

		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		c.Request.ContentLength = int64(len(body))
		c.Request.Header.Del("Content-Encoding")
		c.Request.Header.Set("Content-Length", strconv.Itoa(len(body)))
		c.Next()
	}
}

func decoderFor(encoding string, r io.Reader) (io.ReadCloser, error) {
	switch encoding {
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zr, nil
	case "deflate":
		zr, err := zlib.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zr, nil
	case "zstd":
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	case "br":
		return io.NopCloser(brotli.NewReader(r)), nil
	default:
		return nil, errUnsupportedEncoding
	}
}

// decodeBody 多讀一個 byte 判斷是否超過上限
func decodeBody(encoding string, r io.Reader, limit int64) ([]byte, error) {
	dec, err := decoderFor(encoding, r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	body, err := io.ReadAll(io.LimitReader(dec, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > limit {
		return nil, errBodyTooLarge
	}
	return body, nil
}

func decodeError(encoding string, limit int64, err error) *cErr.Error {
	switch {
	case errors.Is(err, errUnsupportedEncoding):
		return cErr.UnsupportedMediaType("unsupported Content-Encoding: " + encoding + " (gzip, deflate, zstd, br)")
	case errors.Is(err, errBodyTooLarge):
		return cErr.PayloadTooLarge("decoded body exceeds " + strconv.FormatInt(limit, 10) + " bytes")
	default:
		return cErr.BadRequestParams("malformed " + encoding + " body")
	}
}
