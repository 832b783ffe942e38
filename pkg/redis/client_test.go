package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestSetGetDel(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	if err := client.Set(ctx, "sf:cart:store-1:sess-1", `{"lines":[]}`, time.Hour); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	value, err := client.Get(ctx, "sf:cart:store-1:sess-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if value != `{"lines":[]}` {
		t.Fatalf("unexpected stored value %q", value)
	}

	if err := client.Del(ctx, "sf:cart:store-1:sess-1"); err != nil {
		t.Fatalf("del failed: %v", err)
	}
	if _, err := client.Get(ctx, "sf:cart:store-1:sess-1"); err != redis.Nil {
		t.Fatalf("expected redis.Nil after delete, got %v", err)
	}
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	if got := client.CartKey("store-a", "sess-1"); got != "sf:cart:store-a:sess-1" {
		t.Fatalf("unexpected cart key %s", got)
	}
	if got := client.CheckoutSessionKey("store-a", "sess-1"); got != "sf:checkout_session:store-a:sess-1" {
		t.Fatalf("unexpected session key %s", got)
	}
	if got := client.SavedCustomerKey("store-a", "sess-1"); got != "sf:saved_customer:store-a:sess-1" {
		t.Fatalf("unexpected saved customer key %s", got)
	}
	if got := client.PendingOrderKey("store-a", ""); got != "sf:pending_order:store-a" {
		t.Fatalf("empty parts should be skipped, got %s", got)
	}
}

type mockCmdable struct {
	data map[string]string
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{data: make(map[string]string)}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.data[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}
