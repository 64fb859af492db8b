// Package ratelimiter は固定ウィンドウ方式でリクエスト頻度を制限します。
package ratelimiter

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	// EnvKeyAuthRateLimit は認証エンドポイントの1分あたりの上限回数です。0で無効化します。
	EnvKeyAuthRateLimit = "AUTH_RATE_LIMIT"

	defaultAuthRateLimit = 20
)

// window はキーごとのカウンターです。
type window struct {
	count     int
	lastReset time.Time
}

// RateLimiter はキー（クライアントIPなど）ごとに操作の頻度を制限します。
type RateLimiter struct {
	limit    int           // interval あたりの上限
	interval time.Duration // どの単位でリセットするか
	now      func() time.Time

	mu      sync.Mutex
	windows map[string]*window
}

// NewRateLimiter は新しいRateLimiterのインスタンスを生成します。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:    limit,
		interval: interval,
		now:      time.Now,
		windows:  make(map[string]*window),
	}
}

// Allow は key の呼び出しが上限内ならカウントしてtrueを返します。
// 上限に達している場合は待機せずにfalseを返します。
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.windows[key]
	// interval を過ぎたらカウントリセット
	if !ok || now.Sub(w.lastReset) >= rl.interval {
		rl.sweep(now)
		w = &window{lastReset: now}
		rl.windows[key] = w
	}

	if w.count >= rl.limit {
		return false
	}
	w.count++
	return true
}

// sweep は期限切れのウィンドウを破棄します。呼び出し側でロックを保持していること。
func (rl *RateLimiter) sweep(now time.Time) {
	for k, w := range rl.windows {
		if now.Sub(w.lastReset) >= rl.interval {
			delete(rl.windows, k)
		}
	}
}

// Middleware はクライアントIPごとにレート制限を行うGinミドルウェアを返します。
// 上限を超えたリクエストは429で拒否されます。
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			slog.Warn("rate limit exceeded", "path", c.FullPath(), "remote_addr", c.ClientIP())
			c.Header("Retry-After", retryAfter(rl.interval))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}

func retryAfter(d time.Duration) string {
	secs := int((d + time.Second - 1) / time.Second)
	return strconv.Itoa(secs)
}

// LoadAuthLimiterFromEnv はAUTH_RATE_LIMITから認証用のRateLimiterを生成します。
// 0が指定された場合はnilを返します。
func LoadAuthLimiterFromEnv() (*RateLimiter, error) {
	limit := defaultAuthRateLimit
	if raw := os.Getenv(EnvKeyAuthRateLimit); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid %s: %q", EnvKeyAuthRateLimit, raw)
		}
		limit = n
	}
	if limit == 0 {
		return nil, nil
	}
	return NewRateLimiter(limit, time.Minute), nil
}
