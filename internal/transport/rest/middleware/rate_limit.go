package middleware

import (
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"time"

	"descontamina/internal/cache"

	"github.com/m-mizutani/goerr/v2"
	"go.uber.org/zap"
)

// RateLimiter caps requests per client address in a fixed window
type RateLimiter struct {
	counter cache.RateLimitCache
	scope   string
	limit   int64
	trusted []netip.Prefix
	logger  *zap.Logger
}

// NewRateLimiter creates a limiter. A nil counter or a non-positive limit
// disables limiting. X-Forwarded-For is only read when the peer is one of the
// trusted proxies.
func NewRateLimiter(counter cache.RateLimitCache, scope string, limit int, trusted []netip.Prefix, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		counter: counter,
		scope:   scope,
		limit:   int64(limit),
		trusted: trusted,
		logger:  logger,
	}
}

// Limit answers 429 with Retry-After past the limit. Counter errors let the
// request through.
func (l *RateLimiter) Limit(next http.Handler) http.Handler {
	if l == nil || l.counter == nil || l.limit <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := ClientIP(r, l.trusted)
		count, ttl, err := l.counter.Hit(r.Context(), l.scope, ip)
		if err != nil {
			l.logger.Warn("rate limit counter unavailable", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}
		if count > l.limit {
			secs := int(ttl.Round(time.Second) / time.Second)
			if secs < 1 {
				secs = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"status":"error","message":"Muitas tentativas. Tente novamente em instantes."}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClientIP returns the address the limiter keys on. Without trusted proxies
// it is the peer address. Behind trusted proxies it is the right-most
// X-Forwarded-For hop that is not itself a trusted proxy.
func ClientIP(r *http.Request, trusted []netip.Prefix) string {
	peer := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		peer = host
	}
	if !isTrusted(peer, trusted) {
		return peer
	}

	hops := strings.Split(strings.Join(r.Header.Values("X-Forwarded-For"), ","), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if !isTrusted(hop, trusted) {
			return hop
		}
		peer = hop
	}
	return peer
}

func isTrusted(ip string, trusted []netip.Prefix) bool {
	if len(trusted) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// ParseTrustedProxies reads proxy addresses given as single IPs or CIDR ranges
func ParseTrustedProxies(entries []string) ([]netip.Prefix, error) {
	out := make([]netip.Prefix, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(e, "/") {
			p, err := netip.ParsePrefix(e)
			if err != nil {
				return nil, goerr.Wrap(err, "invalid trusted proxy range", goerr.V("entry", e))
			}
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(e)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid trusted proxy address", goerr.V("entry", e))
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}
