package events

import (
	"context"
	"errors"
	"testing"
)

type recorder struct {
	keys []string
	err  error
}

func (r *recorder) Publish(_ context.Context, key string, _ Envelope) error {
	r.keys = append(r.keys, key)
	return r.err
}

func (r *recorder) Close() error { return nil }

func TestFanoutPublishesToAll(t *testing.T) {
	boom := errors.New("broker down")
	a, b := &recorder{err: boom}, &recorder{}
	f := Fanout{a, b}

	err := f.Publish(context.Background(), MessageSent, NewEnvelope(MessageSent, "", nil))
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if len(a.keys) != 1 || len(b.keys) != 1 {
		t.Fatalf("expected both publishers called, got %v %v", a.keys, b.keys)
	}
}

func TestNewEnvelope(t *testing.T) {
	env := NewEnvelope(MessageQueued, "msg-1", map[string]string{"id": "msg-1"})
	if env.Meta.ID == "" || env.Meta.Type != MessageQueued {
		t.Fatalf("unexpected meta %+v", env.Meta)
	}
	if env.Meta.CorrelationID == nil || *env.Meta.CorrelationID != "msg-1" {
		t.Fatalf("correlation id not set")
	}
	if NewEnvelope(MessageQueued, "", nil).Meta.CorrelationID != nil {
		t.Fatal("empty correlation id must be omitted")
	}
}
