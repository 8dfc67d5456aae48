package cart

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisCartKey      = "cart"
	redisTimestampKey = "cart_timestamp"
)

// adjustLineScript applies a quantity delta, removes the field when the
// result drops to zero or below, and rewrites the timestamp, all in one
// atomic step.
var adjustLineScript = redis.NewScript(`
local cart = KEYS[1]
local stamp = KEYS[2]
local field = ARGV[1]
local delta = tonumber(ARGV[2])

local q = redis.call('HINCRBY', cart, field, delta)
if q <= 0 then
	redis.call('HDEL', cart, field)
	q = 0
end
redis.call('SET', stamp, ARGV[3])
return q
`)

// RedisStore is the shared-terminal deployment of the cart store, for
// kiosks where several portal processes serve one counter.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

func (s *RedisStore) Add(ctx context.Context, productID uint, delta int) error {
	field := strconv.FormatUint(uint64(productID), 10)
	stamp := strconv.FormatInt(s.now().UnixMilli(), 10)
	keys := []string{redisCartKey, redisTimestampKey}
	return adjustLineScript.Run(ctx, s.client, keys, field, delta, stamp).Err()
}

func (s *RedisStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, redisCartKey, redisTimestampKey).Err()
}

func (s *RedisStore) Lines(ctx context.Context) ([]Line, error) {
	raw, err := s.client.HGetAll(ctx, redisCartKey).Result()
	if err != nil {
		return nil, err
	}
	lines := make([]Line, 0, len(raw))
	for field, value := range raw {
		id, err := strconv.ParseUint(field, 10, 64)
		if err != nil {
			continue
		}
		q, err := strconv.Atoi(value)
		if err != nil || q <= 0 {
			continue
		}
		lines = append(lines, Line{ProductID: uint(id), Quantity: q})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
	return lines, nil
}

func (s *RedisStore) TotalItems(ctx context.Context) (int, error) {
	lines, err := s.Lines(ctx)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, l := range lines {
		total += l.Quantity
	}
	return total, nil
}

func (s *RedisStore) LastMutation(ctx context.Context) (time.Time, bool, error) {
	value, err := s.client.Get(ctx, redisTimestampKey).Result()
	if err == redis.Nil {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	ms, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}, false, err
	}
	return time.UnixMilli(ms), true, nil
}
