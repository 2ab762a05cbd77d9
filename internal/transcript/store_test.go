package transcript

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T, maxMessages int64, ttl time.Duration) (*miniredis.Miniredis, *Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, NewStore(client, maxMessages, ttl)
}

func TestAppendAndList(t *testing.T) {
	_, store := newTestStore(t, 50, time.Hour)
	ctx := context.Background()

	msgs := []Message{
		{Role: "user", Body: "hola"},
		{Role: "bot", Body: "Hola 👋 ¿Cuántos años tienes?", Level: "age"},
		{Role: "user", Body: "34"},
	}
	for _, msg := range msgs {
		if err := store.Append(ctx, "conv-1", msg); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	got, err := store.List(ctx, "conv-1", 100)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != len(msgs) {
		t.Fatalf("got %d messages, want %d", len(got), len(msgs))
	}
	for i := range msgs {
		if got[i].Role != msgs[i].Role || got[i].Body != msgs[i].Body || got[i].Level != msgs[i].Level {
			t.Errorf("message %d = %+v, want %+v", i, got[i], msgs[i])
		}
		if got[i].ID == "" || got[i].Timestamp.IsZero() {
			t.Errorf("message %d missing id or timestamp: %+v", i, got[i])
		}
	}
}

func TestAppendCapsTranscript(t *testing.T) {
	_, store := newTestStore(t, 5, time.Hour)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		msg := Message{Role: "user", Body: fmt.Sprintf("mensaje %d", i)}
		if err := store.Append(ctx, "conv-1", msg); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	got, err := store.List(ctx, "conv-1", 100)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("got %d messages, want cap of 5", len(got))
	}
	if got[0].Body != "mensaje 7" || got[4].Body != "mensaje 11" {
		t.Errorf("cap must keep the tail: first=%q last=%q", got[0].Body, got[4].Body)
	}
}

func TestAppendSetsTTL(t *testing.T) {
	mr, store := newTestStore(t, 50, time.Hour)

	if err := store.Append(context.Background(), "conv-1", Message{Role: "user", Body: "hola"}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	if ttl := mr.TTL(keyPrefix + "conv-1"); ttl != time.Hour {
		t.Errorf("ttl = %v, want %v", ttl, time.Hour)
	}

	mr.FastForward(2 * time.Hour)
	got, err := store.List(context.Background(), "conv-1", 100)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expired transcript still has %d messages", len(got))
	}
}

func TestListLimitReturnsTail(t *testing.T) {
	_, store := newTestStore(t, 50, time.Hour)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		if err := store.Append(ctx, "conv-1", Message{Role: "user", Body: fmt.Sprintf("mensaje %d", i)}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	got, err := store.List(ctx, "conv-1", 3)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 || got[0].Body != "mensaje 7" {
		t.Errorf("limit must keep the newest messages: %+v", got)
	}
}

func TestRequiresConversationID(t *testing.T) {
	_, store := newTestStore(t, 50, time.Hour)

	if err := store.Append(context.Background(), "", Message{Role: "user", Body: "hola"}); err == nil {
		t.Error("expected error for empty conversation id")
	}
	if _, err := store.List(context.Background(), "", 10); err == nil {
		t.Error("expected error for empty conversation id")
	}
}

func TestNilStoreIsSafe(t *testing.T) {
	var store *Store

	if err := store.Append(context.Background(), "conv-1", Message{Role: "user", Body: "hola"}); err != nil {
		t.Errorf("nil store Append: %v", err)
	}
	msgs, err := store.List(context.Background(), "conv-1", 10)
	if err != nil || msgs != nil {
		t.Errorf("nil store List = %v, %v", msgs, err)
	}
}
