package redis

import (
	"testing"
	"time"

	"trivia-quiz-service/internal/flow"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client, time.Minute)

	_ = store.GetOrCreate("p1", func() *flow.Flow { return flow.New("p1", nil) })
	if !mr.Exists("trivia:player:p1") {
		t.Fatalf("expected redis key to be set")
	}

	mr.FastForward(30 * time.Second)
	if _, ok := store.Get("p1"); !ok {
		t.Fatalf("expected flow present")
	}
	if ttl := mr.TTL("trivia:player:p1"); ttl != time.Minute {
		t.Fatalf("expected ttl refreshed to 1m, got %v", ttl)
	}

	_ = store.GetOrCreate("p1", func() *flow.Flow { return flow.New("p1", nil) })
	if _, last := store.Release("p1"); last {
		t.Fatalf("expected second holder to keep the flow")
	}
	if !mr.Exists("trivia:player:p1") {
		t.Fatalf("expected redis key kept while a holder remains")
	}

	if _, last := store.Release("p1"); !last {
		t.Fatalf("expected last release to remove the flow")
	}
	if mr.Exists("trivia:player:p1") {
		t.Fatalf("expected redis key to be removed")
	}
}
