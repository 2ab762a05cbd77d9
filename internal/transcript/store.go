package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const keyPrefix = "chat_transcript:"

// Message is one logged turn of a conversation. The transcript is an audit
// log only; the flow state itself stays with the client.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // "user" or "bot"
	Body      string    `json:"body"`
	Level     string    `json:"level,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Store keeps per-conversation transcripts in Redis, capped and expiring.
// All methods are nil-safe so transcripts can be disabled by wiring nothing.
type Store struct {
	redis       *redis.Client
	tracer      trace.Tracer
	maxMessages int64
	ttl         time.Duration
}

// NewStore creates a transcript store. Returns nil when redis is absent.
func NewStore(redisClient *redis.Client, maxMessages int64, ttl time.Duration) *Store {
	if redisClient == nil {
		return nil
	}
	return &Store{
		redis:       redisClient,
		tracer:      otel.Tracer("leadbot.internal.transcript"),
		maxMessages: maxMessages,
		ttl:         ttl,
	}
}

// Append logs one message at the tail of the conversation's transcript.
func (s *Store) Append(ctx context.Context, conversationID string, msg Message) error {
	if s == nil || s.redis == nil {
		return nil
	}
	if conversationID == "" {
		return errors.New("transcript: conversationID required")
	}

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("transcript: marshal message: %w", err)
	}

	ctx, span := s.tracer.Start(ctx, "transcript.append")
	defer span.End()

	key := keyPrefix + conversationID
	pipe := s.redis.TxPipeline()
	pipe.RPush(ctx, key, data)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if s.maxMessages > 0 {
		pipe.LTrim(ctx, key, -s.maxMessages, -1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		return fmt.Errorf("transcript: append message: %w", err)
	}
	return nil
}

// List returns up to limit trailing messages for a conversation.
func (s *Store) List(ctx context.Context, conversationID string, limit int64) ([]Message, error) {
	if s == nil || s.redis == nil {
		return nil, nil
	}
	if conversationID == "" {
		return nil, errors.New("transcript: conversationID required")
	}

	ctx, span := s.tracer.Start(ctx, "transcript.list")
	defer span.End()

	start := int64(0)
	if limit > 0 {
		start = -limit
	}

	raw, err := s.redis.LRange(ctx, keyPrefix+conversationID, start, -1).Result()
	if err != nil {
		span.RecordError(err)
		if err == redis.Nil {
			return []Message{}, nil
		}
		return nil, fmt.Errorf("transcript: list messages: %w", err)
	}

	out := make([]Message, 0, len(raw))
	for _, item := range raw {
		var msg Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			span.RecordError(err)
			continue
		}
		out = append(out, msg)
	}
	return out, nil
}
