package middleware

import (
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// redactedQueryParams никогда не попадают в access-лог открытым текстом.
var redactedQueryParams = []string{"token", "refresh_token", "code", "password", "signature"}

// LoggingConfig - настройки access-лога.
type LoggingConfig struct {
	Logger *slog.Logger
	// SkipPaths - точные пути или префиксы с "*" на конце ("/media/*")
	SkipPaths []string
	// SlowThreshold - запросы дольше порога пишутся как Warn; 0 = 1s
	SlowThreshold time.Duration
}

type skipList struct {
	exact    map[string]struct{}
	prefixes []string
}

func newSkipList(paths []string) skipList {
	s := skipList{exact: make(map[string]struct{}, len(paths))}
	for _, p := range paths {
		if prefix, ok := strings.CutSuffix(p, "*"); ok {
			s.prefixes = append(s.prefixes, prefix)
			continue
		}
		s.exact[p] = struct{}{}
	}
	return s
}

func (s skipList) has(path string) bool {
	if _, ok := s.exact[path]; ok {
		return true
	}
	for _, prefix := range s.prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Logging пишет одну запись на запрос.
// request_id, user_id и trace_id подставляет ContextHandler логгера.
func Logging(cfg *LoggingConfig) gin.HandlerFunc {
	if cfg == nil {
		cfg = &LoggingConfig{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	slow := cfg.SlowThreshold
	if slow <= 0 {
		slow = time.Second
	}
	skip := newSkipList(cfg.SkipPaths)

	return func(c *gin.Context) {
		if skip.has(c.Request.URL.Path) {
			c.Next()
			return
		}

		started := time.Now()
		c.Next()
		elapsed := time.Since(started)
		status := c.Writer.Status()

		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400 || elapsed >= slow:
			level = slog.LevelWarn
		}

		attrs := make([]slog.Attr, 0, 12)
		attrs = append(attrs,
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("route", c.FullPath()),
			slog.Int("status", status),
			slog.Duration("duration", elapsed),
			slog.String("client_ip", c.ClientIP()),
			slog.String("user_agent", c.Request.UserAgent()),
			slog.Int("response_size", c.Writer.Size()),
		)
		if q := c.Request.URL.RawQuery; q != "" {
			attrs = append(attrs, slog.String("query", redactQuery(q)))
		}
		if c.Request.ContentLength > 0 {
			attrs = append(attrs, slog.Int64("request_size", c.Request.ContentLength))
		}
		if elapsed >= slow {
			attrs = append(attrs, slog.Bool("slow", true))
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", c.Errors.String()))
		}

		logger.LogAttrs(c.Request.Context(), level, "http request", attrs...)
	}
}

func redactQuery(raw string) string {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return "[unparsable]"
	}
	changed := false
	for _, key := range redactedQueryParams {
		if _, ok := values[key]; ok {
			values.Set(key, "REDACTED")
			changed = true
		}
	}
	if !changed {
		return raw
	}
	return values.Encode()
}
