package data

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/OneOfOne/xxhash"
	"github.com/redis/go-redis/v9"
)

const (
	ipLimitPrefix = "rl:ip:"
	StreamVotes   = "lowball.votes"
)

func MustRedis(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	return redis.NewClient(opt)
}

// AllowIP counts one request against the per-IP window and reports whether
// the caller is still under limit. Keys carry a hash of the address, not the
// address itself.
func AllowIP(ctx context.Context, rdb *redis.Client, ip string, limit int64, window time.Duration) (bool, error) {
	key := ipLimitPrefix + strconv.FormatUint(xxhash.ChecksumString64(ip), 16)
	n, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		// A counter without a TTL would block this address for good.
		if err := rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return n <= limit, nil
}

// PublishVote pushes a cast-vote event onto the stream consumed by the
// announcer bot.
func PublishVote(ctx context.Context, rdb *redis.Client, payload map[string]interface{}) error {
	_, err := rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamVotes,
		Values: payload,
	}).Result()
	return err
}
