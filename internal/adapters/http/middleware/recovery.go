package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/Haleralex/fundhub/internal/adapters/http/common"
)

// RecoveryConfig - настройки перехвата паник в handlers.
type RecoveryConfig struct {
	Logger *slog.Logger
	// EnableStackTrace пишет стек в лог; в production выключено
	EnableStackTrace bool
}

// Recovery превращает панику handler'а в 500 internal_error.
//
// Оборванное клиентом соединение логируется как warning без ответа:
// писать уже некуда. http.ErrAbortHandler пробрасывается дальше в net/http.
func Recovery(cfg *RecoveryConfig) gin.HandlerFunc {
	logger := slog.Default()
	withStack := true
	if cfg != nil {
		withStack = cfg.EnableStackTrace
		if cfg.Logger != nil {
			logger = cfg.Logger
		}
	}

	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			attrs := []slog.Attr{
				slog.String("panic", fmt.Sprint(rec)),
				slog.String("method", c.Request.Method),
				slog.String("route", c.FullPath()),
				slog.String("request_id", common.GetRequestID(c)),
			}
			if userID := c.GetString(AuthUserIDKey); userID != "" {
				attrs = append(attrs, slog.String("user_id", userID))
			}

			if err, ok := rec.(error); ok && isClientGone(err) {
				logger.LogAttrs(c.Request.Context(), slog.LevelWarn, "client connection lost", attrs...)
				c.Abort()
				return
			}

			if withStack {
				attrs = append(attrs, slog.String("stack", string(debug.Stack())))
			}
			logger.LogAttrs(c.Request.Context(), slog.LevelError, "handler panic", attrs...)

			if c.Writer.Written() {
				c.Abort()
				return
			}
			common.AbortWithError(c, http.StatusInternalServerError, common.CodeInternal, common.InternalErrorDetail)
		}()

		c.Next()
	}
}

func isClientGone(err error) bool {
	if errors.Is(err, syscall.EPIPE) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var opErr *net.OpError
	if !errors.As(err, &opErr) {
		return false
	}
	var sysErr *os.SyscallError
	if errors.As(opErr, &sysErr) {
		msg := strings.ToLower(sysErr.Error())
		return strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer")
	}
	return false
}
