package models

import (
	"fmt"
	"time"
)

// MessageStatus is the delivery state of a message.
type MessageStatus string

const (
	StatusQueued    MessageStatus = "queued"
	StatusSent      MessageStatus = "sent"
	StatusDelivered MessageStatus = "delivered"
	StatusRead      MessageStatus = "read"
	StatusFailed    MessageStatus = "failed"
)

// position along queued -> sent -> delivered -> read; failed sits outside the chain.
var statusRank = map[MessageStatus]int{
	StatusQueued:    0,
	StatusSent:      1,
	StatusDelivered: 2,
	StatusRead:      3,
}

func ParseMessageStatus(s string) (MessageStatus, error) {
	st := MessageStatus(s)
	if st.Valid() {
		return st, nil
	}
	return "", fmt.Errorf("unknown message status %q", s)
}

func (s MessageStatus) Valid() bool {
	if s == StatusFailed {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

func (s MessageStatus) Terminal() bool {
	return s == StatusRead || s == StatusFailed
}

// CanTransition reports whether a message in state s may move to next.
// Forward moves may skip states (a "read" receipt can arrive before
// "delivered"). Staying in the same state is allowed and is a no-op.
func (s MessageStatus) CanTransition(next MessageStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	if s.Terminal() {
		return false
	}
	if next == StatusFailed {
		return true
	}
	return statusRank[next] > statusRank[s]
}

// ApplyStatus moves m to next and stamps the matching timestamp the first
// time that state is reached.
func (m *Message) ApplyStatus(next MessageStatus, at time.Time) error {
	if !m.Status.CanTransition(next) {
		return fmt.Errorf("invalid status transition %s -> %s", m.Status, next)
	}
	m.Status = next

	var ts **time.Time
	switch next {
	case StatusSent:
		ts = &m.SentAt
	case StatusDelivered:
		ts = &m.DeliveredAt
	case StatusRead:
		ts = &m.ReadAt
	case StatusFailed:
		ts = &m.FailedAt
	default:
		return nil
	}
	if *ts == nil {
		t := at
		*ts = &t
	}
	return nil
}

// SetExternalID records the provider id in both the column and metadata.
func (m *Message) SetExternalID(id string) {
	if id == "" {
		return
	}
	m.ExternalMessageID = &id
	if m.Metadata == nil {
		m.Metadata = map[string]interface{}{}
	}
	m.Metadata[MetaExternalMessageID] = id
}
