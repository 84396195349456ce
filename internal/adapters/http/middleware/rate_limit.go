package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/Haleralex/fundhub/internal/adapters/http/common"
)

// RateLimitConfig - конфигурация для rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond - скорость пополнения корзины
	RequestsPerSecond float64
	// Burst - размер корзины (максимум запросов подряд)
	Burst int
	// IdleTTL - через сколько неиспользуемый limiter удаляется
	IdleTTL time.Duration
	// KeyFunc - ключ лимитирования, по умолчанию IP адрес
	KeyFunc func(*gin.Context) string
}

// DefaultRateLimitConfig - 10 rps, burst 20, ключ по IP.
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		RequestsPerSecond: 10,
		Burst:             20,
		IdleTTL:           10 * time.Minute,
		KeyFunc:           ClientIPKey,
	}
}

// ClientIPKey - ключ по IP клиента.
func ClientIPKey(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}

// UserOrIPKey - ключ по пользователю, если запрос аутентифицирован, иначе по IP.
func UserOrIPKey(c *gin.Context) string {
	if id := c.GetString(AuthUserIDKey); id != "" {
		return "user:" + id
	}
	return ClientIPKey(c)
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// keyedLimiter - token bucket (x/time/rate) на каждый ключ.
type keyedLimiter struct {
	mu        sync.Mutex
	entries   map[string]*limiterEntry
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func newKeyedLimiter(cfg *RateLimitConfig) *keyedLimiter {
	return &keyedLimiter{
		entries: make(map[string]*limiterEntry),
		limit:   rate.Limit(cfg.RequestsPerSecond),
		burst:   cfg.Burst,
		idleTTL: cfg.IdleTTL,
		now:     time.Now,
	}
}

// get возвращает limiter для ключа. Заодно, не чаще раза в idleTTL, удаляет простаивающие.
func (k *keyedLimiter) get(key string) *rate.Limiter {
	k.mu.Lock()
	defer k.mu.Unlock()

	now := k.now()
	if now.Sub(k.lastSweep) >= k.idleTTL {
		for stale, e := range k.entries {
			if now.Sub(e.lastSeen) > k.idleTTL {
				delete(k.entries, stale)
			}
		}
		k.lastSweep = now
	}

	e, ok := k.entries[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(k.limit, k.burst)}
		k.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter
}

func (k *keyedLimiter) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}

// RateLimit ограничивает частоту запросов по ключу (token bucket).
//
// Headers:
//   - X-RateLimit-Limit: размер корзины
//   - X-RateLimit-Remaining: оставшиеся токены
//   - Retry-After: секунд до следующего токена (при 429)
func RateLimit(config *RateLimitConfig) gin.HandlerFunc {
	if config == nil {
		config = DefaultRateLimitConfig()
	}
	if config.KeyFunc == nil {
		config.KeyFunc = ClientIPKey
	}
	if config.IdleTTL <= 0 {
		config.IdleTTL = 10 * time.Minute
	}

	limiters := newKeyedLimiter(config)
	return rateLimitHandler(config, limiters)
}

func rateLimitHandler(config *RateLimitConfig, limiters *keyedLimiter) gin.HandlerFunc {
	burst := strconv.Itoa(config.Burst)

	return func(c *gin.Context) {
		limiter := limiters.get(config.KeyFunc(c))
		c.Header("X-RateLimit-Limit", burst)

		if !limiter.Allow() {
			retryAfter := 1
			if config.RequestsPerSecond > 0 {
				retryAfter = int(math.Ceil(1 / config.RequestsPerSecond))
			}
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(max(retryAfter, 1)))
			common.AbortWithError(c, http.StatusTooManyRequests, common.CodeTooManyRequests,
				"rate limit exceeded, please try again later")
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(int(math.Max(0, math.Floor(limiter.Tokens())))))
		c.Next()
	}
}
