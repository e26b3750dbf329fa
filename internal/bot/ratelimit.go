package bot

import (
	"sync"
	"time"
)

const (
	// MaxRequestsPerMinute максимум запросов в минуту на пользователя
	MaxRequestsPerMinute = 30
	// RateLimitWindow окно подсчета запросов
	RateLimitWindow = time.Minute
)

// RateLimiter простой rate limiter для пользователей
type RateLimiter struct {
	requests map[int64][]time.Time
	mutex    sync.Mutex
}

// NewRateLimiter создает новый rate limiter
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		requests: make(map[int64][]time.Time),
	}
}

// IsAllowed проверяет, разрешен ли запрос для пользователя
func (rl *RateLimiter) IsAllowed(userID int64) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := time.Now()

	// Оставляем только запросы внутри окна
	var validRequests []time.Time
	for _, reqTime := range rl.requests[userID] {
		if now.Sub(reqTime) < RateLimitWindow {
			validRequests = append(validRequests, reqTime)
		}
	}

	if len(validRequests) >= MaxRequestsPerMinute {
		rl.requests[userID] = validRequests
		return false
	}

	rl.requests[userID] = append(validRequests, now)
	return true
}
