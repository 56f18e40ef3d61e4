package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// DecompressRequest transparently handles gzip encoded requests.
// The decompressed body is cut at maxBytes; zero means unlimited.
func DecompressRequest(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.Contains(c.GetHeader("Content-Encoding"), "gzip") {
			c.Next()
			return
		}

		originalBody := c.Request.Body
		reader, err := gzip.NewReader(originalBody)
		if err != nil {
			abort(c, http.StatusBadRequest, "invalid_body", "malformed gzip body")
			return
		}
		defer reader.Close()
		defer originalBody.Close()

		var body io.Reader = reader
		if maxBytes > 0 {
			body = io.LimitReader(reader, maxBytes)
		}
		c.Request.Body = io.NopCloser(body)
		c.Request.Header.Del("Content-Encoding")
		c.Request.ContentLength = -1
		c.Next()
	}
}
