package middleware

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORSPolicy описывает, каким фронтендам разрешено обращаться к API.
//
// Origins поддерживает три формы:
//   - "*" любой origin
//   - "https://fundhub.example" точное совпадение
//   - "https://*.fundhub.example" любой поддомен (preview-стенды фронтенда)
type CORSPolicy struct {
	Origins []string
	Methods []string
	Headers []string
	Exposed []string
	// Credentials нужен браузеру, чтобы отправлять refresh-cookie
	Credentials bool
	MaxAge      int
}

// DevelopmentCORSPolicy открывает API для любого origin без cookies.
func DevelopmentCORSPolicy() *CORSPolicy {
	return &CORSPolicy{
		Origins: []string{"*"},
		Methods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		Headers: []string{"Origin", "Accept", "Authorization", "Content-Type", RequestIDHeader},
		Exposed: []string{RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		MaxAge:  43200, // 12h
	}
}

// StrictCORSPolicy пускает только перечисленные origins, с cookies.
func StrictCORSPolicy(origins []string) *CORSPolicy {
	p := DevelopmentCORSPolicy()
	p.Origins = origins
	p.Credentials = true
	return p
}

// originMatcher проверяет origin запроса по списку политики.
type originMatcher struct {
	any      bool
	exact    map[string]struct{}
	suffixes []wildcardOrigin
}

type wildcardOrigin struct {
	scheme string
	suffix string // ".fundhub.example"
}

func newOriginMatcher(origins []string) originMatcher {
	m := originMatcher{exact: make(map[string]struct{}, len(origins))}
	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		switch {
		case o == "":
		case o == "*":
			m.any = true
		case strings.Contains(o, "://*."):
			scheme, host, _ := strings.Cut(o, "://")
			m.suffixes = append(m.suffixes, wildcardOrigin{scheme: scheme, suffix: host[1:]})
		default:
			m.exact[strings.ToLower(o)] = struct{}{}
		}
	}
	return m
}

func (m originMatcher) allows(origin string) bool {
	if m.any {
		return true
	}
	if _, ok := m.exact[strings.ToLower(origin)]; ok {
		return true
	}
	if len(m.suffixes) == 0 {
		return false
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Host)
	for _, w := range m.suffixes {
		if u.Scheme == w.scheme && strings.HasSuffix(host, w.suffix) && len(host) > len(w.suffix) {
			return true
		}
	}
	return false
}

// CORS отвечает на preflight и проставляет Access-Control-* заголовки.
// Запрещённый origin проходит дальше без заголовков, браузер сам заблокирует ответ.
func CORS(policy *CORSPolicy) gin.HandlerFunc {
	if policy == nil {
		policy = DevelopmentCORSPolicy()
	}

	matcher := newOriginMatcher(policy.Origins)
	methods := strings.Join(policy.Methods, ", ")
	headers := strings.Join(policy.Headers, ", ")
	exposed := strings.Join(policy.Exposed, ", ")
	maxAge := strconv.Itoa(policy.MaxAge)

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		// Без Origin это не CORS-запрос
		if origin == "" || !matcher.allows(origin) {
			c.Next()
			return
		}

		h := c.Writer.Header()
		switch {
		case matcher.any && !policy.Credentials:
			h.Set("Access-Control-Allow-Origin", "*")
		default:
			// С credentials браузер не принимает "*"
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
		}
		if policy.Credentials {
			h.Set("Access-Control-Allow-Credentials", "true")
		}
		if exposed != "" {
			h.Set("Access-Control-Expose-Headers", exposed)
		}

		if c.Request.Method != http.MethodOptions {
			c.Next()
			return
		}

		h.Set("Access-Control-Allow-Methods", methods)
		h.Set("Access-Control-Allow-Headers", headers)
		h.Set("Access-Control-Max-Age", maxAge)
		c.AbortWithStatus(http.StatusNoContent)
	}
}
