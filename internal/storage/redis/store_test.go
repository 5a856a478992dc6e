package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xolan/logbook/internal/controller"
	"github.com/xolan/logbook/internal/logger"
	"github.com/xolan/logbook/internal/storage"
	"github.com/xolan/logbook/internal/storage/storagetest"
)

var (
	_ storage.Backend            = (*Store)(nil)
	_ controller.AtomicPublisher = (*Store)(nil)
)

// redisAddr returns the address of a test server or skips the test.
func redisAddr(t *testing.T) string {
	t.Helper()
	addr := os.Getenv("LOGBOOK_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("LOGBOOK_TEST_REDIS_ADDR not set")
	}
	return addr
}

func TestStore_Conformance(t *testing.T) {
	addr := redisAddr(t)
	client, err := Connect(context.Background(), DefaultConnectOptions(addr), logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	storagetest.Run(t, func(t *testing.T) storage.Backend {
		s := New(client, "logbook-test:"+uuid.NewString()+":")
		t.Cleanup(func() { _ = s.deleteKeys(context.Background()) })
		return s
	})
}

func TestOrderPrefix_PreservesOrder(t *testing.T) {
	instants := []time.Time{
		time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Unix(0, 0).UTC(),
		time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 15, 9, 0, 0, 1, time.UTC),
	}
	for i := 1; i < len(instants); i++ {
		prev, next := orderPrefix(instants[i-1]), orderPrefix(instants[i])
		assert.Len(t, prev, 20)
		assert.Less(t, prev, next, "%v should sort before %v", instants[i-1], instants[i])
	}
}

func TestMember_RoundTrip(t *testing.T) {
	e := storagetest.Entry(storagetest.At(9, 0), storagetest.At(10, 0), "Work")
	e.Description = "pipes | and more"

	member, err := encodeMember(e)
	require.NoError(t, err)
	assert.True(t, len(member) > 21 && member[20] == '|')

	decoded, err := decodeMember(member)
	require.NoError(t, err)
	assert.True(t, decoded.Equal(e))

	_, err = decodeMember("no separator")
	assert.Error(t, err)
}

func TestConnect_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts ConnectOptions
	}{
		{"missing addr", ConnectOptions{ConnectTimeout: time.Second, RetryInterval: time.Millisecond, MaxWait: time.Second, PingTimeout: time.Second}},
		{"zero timeout", ConnectOptions{Addr: "localhost:6379", RetryInterval: time.Millisecond, MaxWait: time.Second, PingTimeout: time.Second}},
		{"zero retry", ConnectOptions{Addr: "localhost:6379", ConnectTimeout: time.Second, MaxWait: time.Second, PingTimeout: time.Second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Connect(context.Background(), tt.opts, nil)
			assert.Error(t, err)
		})
	}
}

func TestConnect_Unreachable(t *testing.T) {
	opts := ConnectOptions{
		Addr:           "127.0.0.1:1",
		ConnectTimeout: 200 * time.Millisecond,
		RetryInterval:  20 * time.Millisecond,
		MaxWait:        50 * time.Millisecond,
		PingTimeout:    50 * time.Millisecond,
	}
	_, err := Connect(context.Background(), opts, logger.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis unavailable")
}
