package middleware

import (
	"encoding/json"
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"github.com/tuanvumaihuynh/inventory-keeper/internal/apperr"
	"github.com/tuanvumaihuynh/inventory-keeper/internal/config"
	"github.com/tuanvumaihuynh/inventory-keeper/internal/http/apierr"
)

// RateLimit keeps one token bucket per client address. Buckets of idle
// clients expire after cfg.CacheTTL.
func RateLimit(cfg config.RateLimit) func(http.Handler) http.Handler {
	cache := expirable.NewLRU[string, *rate.Limiter](cfg.CacheSize, nil, cfg.CacheTTL)

	getLimiter := func(remoteAddr string) *rate.Limiter {
		limiter, exists := cache.Get(remoteAddr)
		if !exists {
			limiter = rate.NewLimiter(rate.Every(cfg.Interval), cfg.Burst)
			cache.Add(remoteAddr, limiter)
		}

		return limiter
	}

	body, err := json.Marshal(apierr.New(apperr.TooManyRequestsErr))
	if err != nil {
		panic(err)
	}

	reject := func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		//nolint:errcheck
		w.Write(body)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limiter := getLimiter(clientAddr(r, cfg.TrustHeaders))

			reservation := limiter.Reserve()
			if !reservation.OK() {
				reject(w)
				return
			}

			if delay := reservation.Delay(); delay > 0 {
				reservation.Cancel()

				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
				reject(w)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Burst))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%.0f", math.Floor(limiter.Tokens())))

			next.ServeHTTP(w, r)
		})
	}
}

func clientAddr(r *http.Request, trustHeaders bool) string {
	if trustHeaders {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			return strings.TrimSpace(first)
		}

		if xri := r.Header.Get("X-Real-Ip"); xri != "" {
			return xri
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return ip
}
