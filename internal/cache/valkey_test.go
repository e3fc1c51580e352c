package cache

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"
)

// valkeyStore connects to the Valkey instance named by VALKEY_HOST/VALKEY_PORT,
// skipping the test when none is configured.
func valkeyStore(t *testing.T) *Valkey {
	t.Helper()

	host := os.Getenv("VALKEY_HOST")
	if host == "" {
		t.Skip("VALKEY_HOST not set, skipping Valkey integration test")
	}
	port := os.Getenv("VALKEY_PORT")
	if port == "" {
		port = "6379"
	}

	client, err := ConnectValkey(host, port, os.Getenv("VALKEY_PASSWORD"))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	return NewValkey(client, time.Minute)
}

func TestValkeyGetSetDelete(t *testing.T) {
	ctx := context.Background()
	v := valkeyStore(t)
	key := fmt.Sprintf("test:%d", time.Now().UnixNano())

	if _, ok := v.Get(ctx, key); ok {
		t.Fatal("expected miss before set")
	}

	v.Set(ctx, key, []byte("payload"), time.Minute)
	if got, ok := v.Get(ctx, key); !ok || string(got) != "payload" {
		t.Errorf("Get = (%q, %v), want (payload, true)", got, ok)
	}

	v.Delete(ctx, key)
	if _, ok := v.Get(ctx, key); ok {
		t.Error("expected miss after delete")
	}
}

func TestValkeyExpiry(t *testing.T) {
	ctx := context.Background()
	v := valkeyStore(t)
	key := fmt.Sprintf("test:%d", time.Now().UnixNano())

	v.Set(ctx, key, []byte("short"), time.Second)
	if _, ok := v.Get(ctx, key); !ok {
		t.Fatal("expected hit before expiry")
	}

	time.Sleep(1500 * time.Millisecond)
	if _, ok := v.Get(ctx, key); ok {
		t.Error("expected miss after expiry")
	}
}
