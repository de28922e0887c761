package middleware

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// bufferWriter holds the handler's status and body so the response can be
// replaced before anything reaches the client.
type bufferWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (w *bufferWriter) WriteHeader(code int)        { w.status = code }
func (w *bufferWriter) Write(b []byte) (int, error) { return w.buf.Write(b) }

// ConditionalGET answers 304 Not Modified when a GET response carries an
// ETag listed in the request's If-None-Match header.
func ConditionalGET() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			inm := req.Header.Get("If-None-Match")
			if req.Method != http.MethodGet || inm == "" {
				return next(c)
			}

			res := c.Response()
			orig := res.Writer
			bw := &bufferWriter{ResponseWriter: orig, status: http.StatusOK}
			res.Writer = bw
			err := next(c)
			res.Writer = orig
			if err != nil {
				return err
			}

			if bw.status == http.StatusOK && etagMatches(inm, res.Header().Get("ETag")) {
				res.Header().Del(echo.HeaderContentType)
				res.Header().Del(echo.HeaderContentLength)
				res.Status = http.StatusNotModified
				orig.WriteHeader(http.StatusNotModified)
				return nil
			}
			orig.WriteHeader(bw.status)
			_, err = orig.Write(bw.buf.Bytes())
			return err
		}
	}
}

// etagMatches applies the weak comparison of RFC 9110 section 13.1.2.
func etagMatches(header, etag string) bool {
	if etag == "" {
		return false
	}
	etag = strings.TrimPrefix(etag, "W/")
	for _, cand := range strings.Split(header, ",") {
		cand = strings.TrimSpace(cand)
		if cand == "*" || strings.TrimPrefix(cand, "W/") == etag {
			return true
		}
	}
	return false
}
