package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	rd "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Sliding window over a sorted set.
// KEYS[1]=key, ARGV[1]=now (ms), ARGV[2]=window start (ms), ARGV[3]=ttl (sec), ARGV[4]=member, ARGV[5]=limit.
// Returns the request count inside the window, or -1 when the limit is hit.
const luaRateLimit = `
local key = KEYS[1]

redis.call('ZREMRANGEBYSCORE', key, '0', ARGV[2])

local count = redis.call('ZCARD', key)
if count < tonumber(ARGV[5]) then
  redis.call('ZADD', key, ARGV[1], ARGV[4])
  redis.call('EXPIRE', key, ARGV[3])
  return count + 1
else
  return -1
end
`

// RateLimit caps requests per principal. A nil client disables the limiter;
// Redis errors let the request through.
func RateLimit(rdb *rd.Client, scope string, limit int, window time.Duration, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || limit <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("rfq:rate_limit:%s:ip:%s", scope, c.ClientIP())
		if principal, ok := MustPrincipal(c); ok {
			key = fmt.Sprintf("rfq:rate_limit:%s:user:%s", scope, principal.UserID)
		}

		now := time.Now()
		windowStart := now.Add(-window).UnixMilli()
		ttl := int64(window.Seconds())
		if ttl < 1 {
			ttl = 1
		}
		member := fmt.Sprintf("%d-%s", now.UnixNano(), uuid.NewString())

		res, err := rdb.Eval(c.Request.Context(), luaRateLimit, []string{key},
			now.UnixMilli(), windowStart, ttl, member, limit).Int()
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("rate limiter unavailable")
			c.Next()
			return
		}
		if res < 0 {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
