package middleware

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Counter — fixed-window лічильник запитів (Redis у продакшені).
type Counter interface {
	IncrementRequestCount(key string, window time.Duration) (int64, error)
}

// RateLimit обмежує кількість запитів з однієї IP-адреси на вікно.
// Застосовується до /auth/** проти перебору паролів.
// Вікно менше секунди призвело б до ділення на нуль у ключі.
func RateLimit(counter Counter, limit int, window time.Duration) gin.HandlerFunc {
	if window < time.Second {
		window = time.Second
	}

	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s:%d", c.ClientIP(), time.Now().Unix()/int64(window.Seconds()))

		count, err := counter.IncrementRequestCount(key, window)
		if err != nil {
			// Недоступний Redis не має валити запити
			log.Printf("ERROR: Rate limiter unavailable: %v", err)
			c.Next()
			return
		}

		if count > int64(limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, try again later"})
			return
		}

		c.Next()
	}
}
