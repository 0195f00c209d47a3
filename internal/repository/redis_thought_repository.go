package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	customerrors "github.com/axellelanca/happythoughts/internal/errors"
	"github.com/axellelanca/happythoughts/internal/models"
)

const (
	feedKey        = "thoughts"
	seqKey         = "thoughts:seq"
	totalHeartsKey = "thoughts:hearts"
)

// likeScript increments hearts only when the thought already exists, so a like on an unknown
// id never creates a hash. It returns the updated hash as a flat field/value list.
var likeScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return false
end
redis.call('HINCRBY', KEYS[1], 'hearts', 1)
redis.call('INCR', KEYS[2])
return redis.call('HGETALL', KEYS[1])
`)

// RedisThoughtRepository stores thoughts as hashes and keeps the feed order in a sorted set
// scored by creation time. Members are "<seq>:<id>" so equal scores keep insertion order.
type RedisThoughtRepository struct {
	client *redis.Client
}

// NewRedisThoughtRepository creates a RedisThoughtRepository on top of an existing client.
func NewRedisThoughtRepository(client *redis.Client) *RedisThoughtRepository {
	return &RedisThoughtRepository{client: client}
}

func thoughtKey(id string) string {
	return fmt.Sprintf("thought:%s", id)
}

// CreateThought assigns the identifier and writes the hash and feed entry in one MULTI/EXEC.
func (r *RedisThoughtRepository) CreateThought(ctx context.Context, thought *models.Thought) error {
	if thought.ID == "" {
		thought.ID = uuid.NewString()
	}
	thought.CreatedAt = thought.CreatedAt.UTC()

	seq, err := r.client.Incr(ctx, seqKey).Result()
	if err != nil {
		return fmt.Errorf("failed to create thought: %w", err)
	}
	thought.Seq = uint(seq)

	member := fmt.Sprintf("%020d:%s", seq, thought.ID)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, thoughtKey(thought.ID),
			"id", thought.ID,
			"message", thought.Message,
			"hearts", thought.Hearts,
			"createdAt", thought.CreatedAt.Format(time.RFC3339Nano),
		)
		pipe.ZAdd(ctx, feedKey, &redis.Z{
			Score:  float64(thought.CreatedAt.UnixMicro()),
			Member: member,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create thought: %w", err)
	}
	return nil
}

// ListRecentThoughts reads the newest entries of the feed and loads their hashes.
func (r *RedisThoughtRepository) ListRecentThoughts(ctx context.Context, limit int) ([]models.Thought, error) {
	members, err := r.client.ZRevRange(ctx, feedKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list recent thoughts: %w", err)
	}
	thoughts := make([]models.Thought, 0, len(members))
	if len(members) == 0 {
		return thoughts, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.StringStringMapCmd, len(members))
	for i, member := range members {
		cmds[i] = pipe.HGetAll(ctx, thoughtKey(memberID(member)))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to list recent thoughts: %w", err)
	}

	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		thought, err := thoughtFromHash(fields)
		if err != nil {
			return nil, fmt.Errorf("failed to decode thought %s: %w", memberID(members[i]), err)
		}
		thoughts = append(thoughts, *thought)
	}
	return thoughts, nil
}

// IncrementHearts runs the like script, which is atomic on the Redis side.
func (r *RedisThoughtRepository) IncrementHearts(ctx context.Context, id string) (*models.Thought, error) {
	res, err := likeScript.Run(ctx, r.client, []string{thoughtKey(id), totalHeartsKey}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, customerrors.ErrThoughtNotFound
		}
		return nil, fmt.Errorf("failed to increment hearts for thought %s: %w", id, err)
	}

	values, ok := res.([]interface{})
	if !ok || len(values)%2 != 0 {
		return nil, fmt.Errorf("unexpected like script reply %T for thought %s", res, id)
	}
	fields := make(map[string]string, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		k, _ := values[i].(string)
		v, _ := values[i+1].(string)
		fields[k] = v
	}
	return thoughtFromHash(fields)
}

// CountThoughts returns the number of entries in the feed.
func (r *RedisThoughtRepository) CountThoughts(ctx context.Context) (int64, error) {
	count, err := r.client.ZCard(ctx, feedKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count thoughts: %w", err)
	}
	return count, nil
}

// TotalHearts reads the counter maintained by the like script.
func (r *RedisThoughtRepository) TotalHearts(ctx context.Context) (int64, error) {
	total, err := r.client.Get(ctx, totalHeartsKey).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to sum hearts: %w", err)
	}
	return total, nil
}

// Ping checks that Redis still answers.
func (r *RedisThoughtRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (r *RedisThoughtRepository) Close() error {
	return r.client.Close()
}

func memberID(member string) string {
	if i := strings.IndexByte(member, ':'); i >= 0 {
		return member[i+1:]
	}
	return member
}

func thoughtFromHash(fields map[string]string) (*models.Thought, error) {
	hearts, err := strconv.ParseInt(fields["hearts"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid hearts %q: %w", fields["hearts"], err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, fields["createdAt"])
	if err != nil {
		return nil, fmt.Errorf("invalid createdAt %q: %w", fields["createdAt"], err)
	}
	return &models.Thought{
		ID:        fields["id"],
		Message:   fields["message"],
		Hearts:    hearts,
		CreatedAt: createdAt,
	}, nil
}
