package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"hotelledger/pkg/logger"

	"github.com/redis/go-redis/v9"
)

func countingHandler(calls *int32, status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(calls, 1)
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"call":` + string(rune('0'+n)) + `,"echo":` + string(body) + `}`))
	})
}

func postWithKey(key, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(DefaultIdempotencyHeader, key)
	}
	return req
}

func TestIdempotency_ReplaysSuccessfulResponse(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Hour)
	defer store.Close()

	var calls int32
	handler := Idempotency(store, logger.Discard(), "")(countingHandler(&calls, http.StatusCreated))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, postWithKey("key-1", `{"room_id":1}`))

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, postWithKey("key-1", `{"room_id":1}`))

	if calls != 1 {
		t.Fatalf("expected handler to run once, ran %d times", calls)
	}
	if second.Code != http.StatusCreated {
		t.Errorf("expected replayed 201, got %d", second.Code)
	}
	if second.Body.String() != first.Body.String() {
		t.Errorf("replayed body differs:\n%s\n%s", first.Body.String(), second.Body.String())
	}
	if second.Header().Get(IdempotentReplayHeader) != "true" {
		t.Error("expected replay header on second response")
	}
}

func TestIdempotency_DifferentPayloadRejected(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Hour)
	defer store.Close()

	var calls int32
	handler := Idempotency(store, logger.Discard(), "")(countingHandler(&calls, http.StatusCreated))

	handler.ServeHTTP(httptest.NewRecorder(), postWithKey("key-1", `{"room_id":1}`))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, postWithKey("key-1", `{"room_id":2}`))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for reused key, got %d", rec.Code)
	}
	if calls != 1 {
		t.Errorf("handler must not run for a mismatched payload, ran %d times", calls)
	}
}

func TestIdempotency_ErrorsAreNotCached(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Hour)
	defer store.Close()

	var calls int32
	handler := Idempotency(store, logger.Discard(), "")(countingHandler(&calls, http.StatusConflict))

	handler.ServeHTTP(httptest.NewRecorder(), postWithKey("key-1", `{}`))
	handler.ServeHTTP(httptest.NewRecorder(), postWithKey("key-1", `{}`))

	if calls != 2 {
		t.Errorf("failed responses must not be replayed, handler ran %d times", calls)
	}
}

func TestIdempotency_WithoutKeyPassesThrough(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Hour)
	defer store.Close()

	var calls int32
	handler := Idempotency(store, logger.Discard(), "")(countingHandler(&calls, http.StatusCreated))

	handler.ServeHTTP(httptest.NewRecorder(), postWithKey("", `{}`))
	handler.ServeHTTP(httptest.NewRecorder(), postWithKey("", `{}`))

	if calls != 2 {
		t.Errorf("expected 2 calls without key, got %d", calls)
	}
}

func TestIdempotency_KeyScopedByPath(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Hour)
	defer store.Close()

	var calls int32
	handler := Idempotency(store, logger.Discard(), "")(countingHandler(&calls, http.StatusCreated))

	handler.ServeHTTP(httptest.NewRecorder(), postWithKey("shared", `{}`))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/rooms", strings.NewReader(`{}`))
	req.Header.Set(DefaultIdempotencyHeader, "shared")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if calls != 2 {
		t.Errorf("same key on another route must not replay, got %d calls", calls)
	}
}

func TestIdempotency_InFlightRejected(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Hour)
	defer store.Close()

	release := make(chan struct{})
	started := make(chan struct{})
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		w.WriteHeader(http.StatusCreated)
	})
	handler := Idempotency(store, logger.Discard(), "")(slow)

	done := make(chan struct{})
	go func() {
		handler.ServeHTTP(httptest.NewRecorder(), postWithKey("busy", `{}`))
		close(done)
	}()
	<-started

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, postWithKey("busy", `{}`))
	close(release)
	<-done

	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 while first request is in flight, got %d", rec.Code)
	}
}

func TestInMemoryIdempotencyStore_Expiry(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Minute)
	defer store.Close()

	now := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	ctx := context.Background()
	_ = store.Set(ctx, "k", &CachedResponse{StatusCode: http.StatusCreated})

	if _, found, _ := store.Get(ctx, "k"); !found {
		t.Fatal("expected fresh entry to be found")
	}

	now = now.Add(2 * time.Minute)
	if _, found, _ := store.Get(ctx, "k"); found {
		t.Error("expected expired entry to be dropped")
	}
}

type fakeRedis struct {
	data   map[string]string
	ttl    time.Duration
	getErr error
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	value, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(value, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	f.data[key] = string(value.([]byte))
	f.ttl = expiration
	return redis.NewStatusResult("OK", nil)
}

func TestRedisIdempotencyStore(t *testing.T) {
	client := &fakeRedis{data: map[string]string{}}
	store := NewRedisIdempotencyStore(client, time.Hour)
	ctx := context.Background()

	if _, found, err := store.Get(ctx, "missing"); found || err != nil {
		t.Fatalf("expected clean miss, got found=%v err=%v", found, err)
	}

	err := store.Set(ctx, "k", &CachedResponse{
		StatusCode:  http.StatusCreated,
		Headers:     http.Header{"Content-Type": []string{"application/json"}},
		Body:        []byte(`{"ok":true}`),
		Fingerprint: "abc",
	})
	if err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if client.ttl != time.Hour {
		t.Errorf("expected ttl to be passed to redis, got %s", client.ttl)
	}
	if _, ok := client.data[redisIdempotencyPrefix+"k"]; !ok {
		t.Errorf("expected prefixed key, got %v", client.data)
	}

	cached, found, err := store.Get(ctx, "k")
	if err != nil || !found {
		t.Fatalf("expected hit, got found=%v err=%v", found, err)
	}
	if cached.StatusCode != http.StatusCreated || string(cached.Body) != `{"ok":true}` || cached.Fingerprint != "abc" {
		t.Errorf("unexpected cached response %+v", cached)
	}

	client.getErr = errors.New("connection refused")
	if _, _, err := store.Get(ctx, "k"); err == nil {
		t.Error("expected redis error to be returned")
	}
}
