// internal/ratelimit/ratelimit.go - 按 key 限流
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Keyed 为每个 key（IP 或用户）维护独立的限流器
type Keyed struct {
	mu       sync.RWMutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// PerWindow 构造"窗口内最多 n 次"的限流器，如 5 次/10 分钟
func PerWindow(n int, window time.Duration) *Keyed {
	k := &Keyed{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(window / time.Duration(n)),
		burst:    n,
	}

	go k.cleanupRoutine()

	return k
}

// Allow 判断 key 的本次请求是否放行
func (k *Keyed) Allow(key string) bool {
	return k.getLimiter(key).Allow()
}

// RetryAfter 估算 key 下一次可用的等待秒数
func (k *Keyed) RetryAfter(key string) int {
	lim := k.getLimiter(key)
	r := lim.Reserve()
	if !r.OK() {
		return int(time.Minute.Seconds())
	}
	delay := r.Delay()
	r.Cancel()
	return int(delay.Seconds()) + 1
}

func (k *Keyed) getLimiter(key string) *rate.Limiter {
	k.mu.RLock()
	v, exists := k.visitors[key]
	k.mu.RUnlock()

	if exists {
		k.mu.Lock()
		v.lastSeen = time.Now()
		k.mu.Unlock()
		return v.limiter
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if v, exists = k.visitors[key]; exists {
		v.lastSeen = time.Now()
		return v.limiter
	}

	v = &visitor{
		limiter:  rate.NewLimiter(k.limit, k.burst),
		lastSeen: time.Now(),
	}
	k.visitors[key] = v
	return v.limiter
}

// 每10分钟清理一次过期的访问者
func (k *Keyed) cleanupRoutine() {
	for {
		time.Sleep(10 * time.Minute)

		k.mu.Lock()
		for key, v := range k.visitors {
			if time.Since(v.lastSeen) > 30*time.Minute {
				delete(k.visitors, key)
			}
		}
		k.mu.Unlock()
	}
}
