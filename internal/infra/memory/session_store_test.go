package memory

import (
	"testing"

	"trivia-quiz-service/internal/flow"
)

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()

	calls := 0
	create := func() *flow.Flow {
		calls++
		return flow.New("p1", nil)
	}

	f := store.GetOrCreate("p1", create)
	if f == nil {
		t.Fatalf("expected flow")
	}
	if again := store.GetOrCreate("p1", create); again != f {
		t.Fatalf("expected the same flow on second call")
	}
	if calls != 1 {
		t.Fatalf("expected create once, got %d", calls)
	}
	if _, ok := store.Get("p1"); !ok {
		t.Fatalf("expected flow present")
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 flow, got %d", store.Len())
	}

	if _, last := store.Release("p1"); last {
		t.Fatalf("expected second holder to keep the flow")
	}
	if got, ok := store.Get("p1"); !ok || got != f {
		t.Fatalf("expected flow still present after first release")
	}

	released, last := store.Release("p1")
	if !last || released != f {
		t.Fatalf("expected last release to return the flow")
	}
	if _, ok := store.Get("p1"); ok {
		t.Fatalf("expected flow removed")
	}
	if _, last := store.Release("p1"); last {
		t.Fatalf("expected release of unknown player to be a no-op")
	}
}
