// Package redis stores entries in a Redis sorted set. All members share
// score 0 and carry an order-preserving start prefix, so ZRANGEBYLEX with
// LIMIT 0 1 answers both lookups.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xolan/logbook/internal/controller"
	"github.com/xolan/logbook/internal/entry"
	"github.com/xolan/logbook/internal/storage"
)

const (
	backendName = "redis"

	// DefaultKeyPrefix namespaces the keys of one logbook.
	DefaultKeyPrefix = "logbook:"

	separator = "|"
)

// Store is a Redis-backed entry store.
type Store struct {
	client       redis.UniversalClient
	entriesKey   string
	mutationsKey string
	ownsClient   bool
	now          func() time.Time
}

// New wraps an existing client. The caller keeps ownership of client.
func New(client redis.UniversalClient, keyPrefix string) *Store {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &Store{
		client:       client,
		entriesKey:   keyPrefix + "entries",
		mutationsKey: keyPrefix + "mutations",
		now:          time.Now,
	}
}

// NewOwned is New for a client that Close should also close.
func NewOwned(client redis.UniversalClient, keyPrefix string) *Store {
	s := New(client, keyPrefix)
	s.ownsClient = true
	return s
}

// Close closes the client if the store owns it.
func (s *Store) Close() error {
	if s.ownsClient {
		return s.client.Close()
	}
	return nil
}

// orderPrefix renders t as 20 decimal digits whose lexical order equals
// time order, including instants before 1970. t is clamped to the storable
// range first.
func orderPrefix(t time.Time) string {
	return fmt.Sprintf("%020d", uint64(entry.ClampTime(t).UnixNano())^(1<<63))
}

func encodeMember(e entry.Entry) (string, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	return orderPrefix(e.Start) + separator + string(payload), nil
}

func decodeMember(member string) (entry.Entry, error) {
	_, payload, ok := strings.Cut(member, separator)
	if !ok {
		return entry.Entry{}, fmt.Errorf("malformed member %q", member)
	}
	var e entry.Entry
	if err := json.Unmarshal([]byte(payload), &e); err != nil {
		return entry.Entry{}, err
	}
	return e, nil
}

// FindFirstAfter returns the entry with the smallest start >= t.
func (s *Store) FindFirstAfter(ctx context.Context, t time.Time) (*entry.Entry, error) {
	members, err := s.client.ZRangeByLex(ctx, s.entriesKey, &redis.ZRangeBy{
		Min:   "[" + orderPrefix(t),
		Max:   "+",
		Count: 1,
	}).Result()
	return s.first(members, err, "find_first_after")
}

// FindLastBefore returns the entry with the largest start <= t.
func (s *Store) FindLastBefore(ctx context.Context, t time.Time) (*entry.Entry, error) {
	if t.Before(entry.MinTime) {
		return nil, nil
	}
	// '~' sorts after the separator, so every member starting at t is below it.
	members, err := s.client.ZRevRangeByLex(ctx, s.entriesKey, &redis.ZRangeBy{
		Min:   "-",
		Max:   "(" + orderPrefix(t) + "~",
		Count: 1,
	}).Result()
	return s.first(members, err, "find_last_before")
}

func (s *Store) first(members []string, err error, op string) (*entry.Entry, error) {
	if err != nil {
		return nil, controller.WrapStorage(backendName, op, err)
	}
	if len(members) == 0 {
		return nil, nil
	}
	e, err := decodeMember(members[0])
	if err != nil {
		return nil, controller.WrapStorage(backendName, op, err)
	}
	return &e, nil
}

// PublishEntry adds e to the sorted set.
func (s *Store) PublishEntry(ctx context.Context, e entry.Entry) error {
	member, err := encodeMember(e)
	if err != nil {
		return controller.WrapStorage(backendName, "publish", err)
	}
	err = s.client.ZAdd(ctx, s.entriesKey, redis.Z{Score: 0, Member: member}).Err()
	return controller.WrapStorage(backendName, "publish", err)
}

// PublishAndLog adds e and pushes its mutation inside one MULTI/EXEC.
func (s *Store) PublishAndLog(ctx context.Context, e entry.Entry, m entry.Mutation) error {
	member, err := encodeMember(e)
	if err != nil {
		return controller.WrapStorage(backendName, "publish", err)
	}
	payload, err := json.Marshal(storage.NewMutationRecord(m, s.now()))
	if err != nil {
		return controller.WrapStorage(backendName, "append_mutation", err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, s.entriesKey, redis.Z{Score: 0, Member: member})
		pipe.RPush(ctx, s.mutationsKey, payload)
		return nil
	})
	return controller.WrapStorage(backendName, "publish", err)
}

// RetractEntry removes the member equal to e.
func (s *Store) RetractEntry(ctx context.Context, e entry.Entry) error {
	members, err := s.client.ZRangeByLex(ctx, s.entriesKey, &redis.ZRangeBy{
		Min:   "[" + orderPrefix(e.Start) + separator,
		Max:   "(" + orderPrefix(e.Start) + "~",
		Count: 1,
	}).Result()
	if err != nil {
		return controller.WrapStorage(backendName, "retract", err)
	}
	if len(members) == 0 {
		return controller.ErrEntryNotFound
	}
	stored, err := decodeMember(members[0])
	if err != nil {
		return controller.WrapStorage(backendName, "retract", err)
	}
	if !stored.Equal(e) {
		return controller.ErrEntryNotFound
	}
	return controller.WrapStorage(backendName, "retract", s.client.ZRem(ctx, s.entriesKey, members[0]).Err())
}

// AppendMutation pushes m onto the mutation list.
func (s *Store) AppendMutation(ctx context.Context, m entry.Mutation) error {
	payload, err := json.Marshal(storage.NewMutationRecord(m, s.now()))
	if err != nil {
		return controller.WrapStorage(backendName, "append_mutation", err)
	}
	return controller.WrapStorage(backendName, "append_mutation", s.client.RPush(ctx, s.mutationsKey, payload).Err())
}

// History returns the mutation list in push order.
func (s *Store) History(ctx context.Context) ([]storage.MutationRecord, error) {
	raw, err := s.client.LRange(ctx, s.mutationsKey, 0, -1).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, controller.WrapStorage(backendName, "history", err)
	}
	records := make([]storage.MutationRecord, 0, len(raw))
	for _, item := range raw {
		var r storage.MutationRecord
		if err := json.Unmarshal([]byte(item), &r); err != nil {
			return nil, controller.WrapStorage(backendName, "history", err)
		}
		records = append(records, r)
	}
	return records, nil
}

// deleteKeys drops both keys.
func (s *Store) deleteKeys(ctx context.Context) error {
	return controller.WrapStorage(backendName, "clear", s.client.Del(ctx, s.entriesKey, s.mutationsKey).Err())
}
