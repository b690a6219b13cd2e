package gate

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "gate:"

// slidingWindowScript trims the sorted set to the window, then records the hit
// only when the caller is still under budget. Scores are milliseconds.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local max = tonumber(ARGV[3])
local member = ARGV[4]
redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
if count >= max then
  return 0
end
redis.call('ZADD', key, now, member)
redis.call('PEXPIRE', key, window)
return 1
`)

// RedisWindow shares the sliding window between processes.
type RedisWindow struct {
	rdb redis.Scripter
	now func() time.Time
}

func NewRedisWindow(rdb redis.Scripter) *RedisWindow {
	return &RedisWindow{rdb: rdb, now: time.Now}
}

func (w *RedisWindow) Allow(ctx context.Context, key string, max int, window time.Duration) (bool, error) {
	now := w.now().UnixMilli()
	res, err := slidingWindowScript.Run(ctx, w.rdb,
		[]string{redisKeyPrefix + key},
		now, window.Milliseconds(), max, strconv.FormatInt(now, 10)+"-"+uuid.NewString(),
	).Int()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}
