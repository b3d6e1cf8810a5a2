package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/leave-management/pkg/logger"
)

// maxLoggedBody caps how much of a request or response body is kept for logs.
const maxLoggedBody = 16 << 10

const redacted = "[FILTERED]"

var sensitiveKeys = map[string]bool{
	"password":             true,
	"password_hash":        true,
	"current_password":     true,
	"new_password":         true,
	"token":                true,
	"access_token":         true,
	"refresh_token":        true,
	"authorization":        true,
	"secret":               true,
	"access_token_secret":  true,
	"refresh_token_secret": true,
	"smtp_password":        true,
}

var sensitiveHeaders = map[string]bool{
	"Authorization": true,
	"Cookie":        true,
	"Set-Cookie":    true,
	"X-Api-Key":     true,
}

// LoggingMiddleware logs each request and its response through the
// request-scoped logger, so entries carry the trace id set by RequestID.
func LoggingMiddleware(base *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			log := base
			if scoped, ok := logger.Lookup(r.Context()); ok {
				log = scoped
			}

			log.InfoContext(r.Context(), "incoming request",
				"method", r.Method,
				"path", r.URL.Path,
				"query", r.URL.RawQuery,
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
				"headers", filterHeaders(r.Header),
				"body", readRequestBody(r),
			)

			rw := &responseWriter{ResponseWriter: w}
			next.ServeHTTP(rw, r)

			logResponse(r, log, rw, time.Since(start))
		})
	}
}

// responseWriter records the status and, for JSON responses, a bounded copy
// of the body.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
	body       bytes.Buffer
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.statusCode == 0 {
		rw.statusCode = code
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if rw.statusCode == 0 {
		rw.statusCode = http.StatusOK
	}
	if isJSON(rw.Header().Get("Content-Type")) && rw.body.Len() < maxLoggedBody {
		rw.body.Write(b[:min(len(b), maxLoggedBody-rw.body.Len())])
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

func readRequestBody(r *http.Request) string {
	if r.Body == nil || r.Body == http.NoBody || !isJSON(r.Header.Get("Content-Type")) {
		return ""
	}
	body, err := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	if len(body) > maxLoggedBody {
		return "[TRUNCATED]"
	}
	return filterBody(body)
}

func logResponse(r *http.Request, log *slog.Logger, rw *responseWriter, duration time.Duration) {
	status := rw.statusCode
	if status == 0 {
		status = http.StatusOK
	}

	level := slog.LevelInfo
	switch {
	case status >= 500:
		level = slog.LevelError
	case status >= 400:
		level = slog.LevelWarn
	}

	attrs := []any{
		"method", r.Method,
		"path", r.URL.Path,
		"status_code", status,
		"duration_ms", duration.Milliseconds(),
		"response_size", rw.size,
	}
	if rw.body.Len() > 0 {
		attrs = append(attrs, "body", filterBody(rw.body.Bytes()))
	}

	log.Log(r.Context(), level, "response", attrs...)
}

func isJSON(contentType string) bool {
	return strings.HasPrefix(contentType, "application/json")
}

func filterHeaders(headers http.Header) map[string]string {
	filtered := make(map[string]string, len(headers))
	for name, values := range headers {
		if sensitiveHeaders[http.CanonicalHeaderKey(name)] {
			filtered[name] = redacted
			continue
		}
		filtered[name] = strings.Join(values, ", ")
	}
	return filtered
}

// filterBody redacts sensitive keys at any depth; bodies that are not valid
// JSON are dropped rather than logged raw.
func filterBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return "[UNPARSEABLE]"
	}

	out, err := json.Marshal(redact(data))
	if err != nil {
		return "[UNPARSEABLE]"
	}
	return string(out)
}

func redact(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		for key, value := range v {
			if sensitiveKeys[strings.ToLower(key)] {
				v[key] = redacted
				continue
			}
			v[key] = redact(value)
		}
		return v
	case []interface{}:
		for i, item := range v {
			v[i] = redact(item)
		}
		return v
	default:
		return v
	}
}
